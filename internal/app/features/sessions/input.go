// internal/app/features/sessions/input.go
package sessions

import (
	"context"
	"strings"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/apperr"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/htmlsanitize"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/inputval"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/app/system/normalize"
	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sessionInput is the body of POST /api/sessions and PUT /api/sessions/{id}.
type sessionInput struct {
	Name             string         `json:"name" validate:"required,max=120"`
	Description      string         `json:"description" validate:"max=2000"`
	Frequency        string         `json:"frequency" validate:"required,oneof=one_time daily weekly monthly"`
	StartDate        string         `json:"start_date" validate:"required,ymd"`
	EndDate          string         `json:"end_date" validate:"omitempty,ymd"`
	StartTime        string         `json:"start_time" validate:"required,hhmm"`
	EndTime          string         `json:"end_time" validate:"required,hhmm"`
	WeeklyDays       []string       `json:"weekly_days" validate:"dive,weekday"`
	LocationType     string         `json:"location_type" validate:"required,oneof=physical virtual"`
	PhysicalLocation *locationInput `json:"physical_location"`
	VirtualLocation  string         `json:"virtual_location" validate:"max=500"`
	AssignedUsers    []string       `json:"assigned_users" validate:"dive,objectid"`
	LateGraceMinutes *int           `json:"late_grace_minutes" validate:"omitempty,gte=0,lte=240"`
}

type locationInput struct {
	Lat          float64 `json:"lat" validate:"latitude"`
	Lng          float64 `json:"lng" validate:"longitude"`
	RadiusMeters float64 `json:"radius_meters" validate:"gt=0,lte=100000"`
	Address      string  `json:"address" validate:"max=300"`
}

// validationFailure carries the per-field errors of a rejected body.
type validationFailure struct {
	msg    string
	fields []inputval.FieldError
}

func (v *validationFailure) Error() string { return v.msg }

// toTemplate validates in and builds the template it describes for orgID.
// Field-level failures come back as *validationFailure; cross-field
// failures as apperr validation errors.
func (in sessionInput) toTemplate(ctx context.Context, orgID primitive.ObjectID, members MemberChecker) (models.SessionTemplate, error) {
	in.WeeklyDays = normalize.Weekdays(in.WeeklyDays)
	in.Frequency = strings.ToLower(strings.TrimSpace(in.Frequency))
	in.LocationType = strings.ToLower(strings.TrimSpace(in.LocationType))
	in.Name = htmlsanitize.StripTags(in.Name)

	if res := inputval.Validate(in); res.HasErrors() {
		return models.SessionTemplate{}, &validationFailure{msg: res.First(), fields: res.Errors}
	}

	start, _ := models.ParseDate(in.StartDate)
	t := models.SessionTemplate{
		OrganizationID:   orgID,
		Name:             in.Name,
		Description:      htmlsanitize.Sanitize(in.Description),
		Frequency:        in.Frequency,
		StartDate:        start,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		LocationType:     in.LocationType,
		LateGraceMinutes: in.LateGraceMinutes,
	}

	if in.EndDate != "" && in.Frequency != models.FrequencyOneTime {
		end, _ := models.ParseDate(in.EndDate)
		if end.Before(start) {
			return models.SessionTemplate{}, apperr.New(apperr.Validation, "end_date must not be before start_date")
		}
		t.EndDate = &end
	}

	if in.Frequency == models.FrequencyWeekly {
		if len(in.WeeklyDays) == 0 {
			return models.SessionTemplate{}, apperr.New(apperr.Validation, "weekly sessions need at least one weekday")
		}
		t.WeeklyDays = in.WeeklyDays
	}

	switch in.LocationType {
	case models.LocationPhysical:
		if in.PhysicalLocation == nil {
			return models.SessionTemplate{}, apperr.New(apperr.Validation, "physical sessions need a physical_location")
		}
		t.PhysicalLocation = &models.PhysicalLocation{
			Center:       models.GeoPoint{Lat: in.PhysicalLocation.Lat, Lng: in.PhysicalLocation.Lng},
			RadiusMeters: in.PhysicalLocation.RadiusMeters,
			Address:      htmlsanitize.StripTags(in.PhysicalLocation.Address),
		}
	case models.LocationVirtual:
		t.VirtualLocation = strings.TrimSpace(in.VirtualLocation)
	}

	assigned, err := uniqueIDs(in.AssignedUsers)
	if err != nil {
		return models.SessionTemplate{}, err
	}
	if len(assigned) > 0 {
		n, err := members.InOrg(ctx, orgID, assigned)
		if err != nil {
			return models.SessionTemplate{}, apperr.Wrap(apperr.Internal, err, "check assigned users")
		}
		if n != int64(len(assigned)) {
			return models.SessionTemplate{}, apperr.New(apperr.Validation, "every assigned user must belong to the organization")
		}
	}
	t.AssignedUsers = assigned
	return t, nil
}

func uniqueIDs(hexes []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]bool, len(hexes))
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "assigned_users holds an invalid id")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
