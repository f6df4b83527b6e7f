// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/attendance"
	uierrors "github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/features/errors"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/store/audit"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/formutil"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/normalize"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

func (h *Handler) viewer(w http.ResponseWriter, r *http.Request) (attendance.Actor, bool) {
	actor, err := attendance.ActorFromRequest(r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return attendance.Actor{}, false
	}
	if !actor.Caps.CanViewAudit {
		h.ErrLog.Forbidden(w, r, "You may not view the audit log.")
		return attendance.Actor{}, false
	}
	return actor, true
}

// buildFilter reads ?category=&event_type=&start_date=&end_date=&page=.
// Dates are whole UTC days.
func buildFilter(r *http.Request, orgID primitive.ObjectID) (audit.QueryFilter, int, error) {
	category := normalize.QueryParam(query.Get(r, "category"))
	eventType := normalize.QueryParam(query.Get(r, "event_type"))

	page := 1
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		page = p
	}

	if category != "" && eventTypesForCategory(category) == nil {
		return audit.QueryFilter{}, 0, apperr.New(apperr.Validation, "unknown category %q", category)
	}
	if eventType != "" && !isKnownEventType(category, eventType) {
		return audit.QueryFilter{}, 0, apperr.New(apperr.Validation, "unknown event type %q", eventType)
	}

	filter := audit.QueryFilter{
		OrganizationID: &orgID,
		Category:       category,
		EventType:      eventType,
		Limit:          pageSize,
		Offset:         int64((page - 1) * pageSize),
	}

	start, ok, err := formutil.DateQuery(r, "start_date")
	if err != nil {
		return audit.QueryFilter{}, 0, err
	}
	if ok {
		t := start.In(time.UTC)
		filter.StartTime = &t
	}
	end, ok, err := formutil.DateQuery(r, "end_date")
	if err != nil {
		return audit.QueryFilter{}, 0, err
	}
	if ok {
		t := end.In(time.UTC).Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &t
	}
	return filter, page, nil
}

// ServeList handles GET /api/audit, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.viewer(w, r)
	if !ok {
		return
	}
	filter, page, err := buildFilter(r, actor.OrganizationID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to query audit events", err, "A database error occurred.")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "failed to count audit events", err, "A database error occurred.")
		return
	}

	// Collect unique user IDs for name resolution
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, e := range events {
		for _, id := range []*primitive.ObjectID{e.ActorID, e.UserID} {
			if id == nil {
				continue
			}
			if _, dup := seen[*id]; !dup {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}
	userNames := make(map[primitive.ObjectID]string)
	if len(ids) > 0 {
		users, err := h.Users.GetByIDs(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		}
		for _, u := range users {
			userNames[u.ID] = u.FullName
		}
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorID = e.ActorID.Hex()
			item.ActorName = userNames[*e.ActorID]
		}
		if e.UserID != nil {
			item.TargetID = e.UserID.Hex()
			item.TargetName = userNames[*e.UserID]
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	})
}

// ServeTypes handles GET /api/audit/types: the categories and event types
// accepted as filters.
func (h *Handler) ServeTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.viewer(w, r); !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"categories": allCategories()})
}
