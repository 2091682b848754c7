package request

import (
	"strings"
	"time"

	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var ErrInvalidQuery = errs.New("invalid availability query")

// AvailabilityQuery is bound from the query string. service_ids accepts a
// comma separated list and may be repeated.
type AvailabilityQuery struct {
	From       string   `form:"from" binding:"required"`
	To         string   `form:"to"`
	ServiceIDs []string `form:"service_ids" binding:"required"`
	StaffID    string   `form:"staff_id"`
}

type ParsedAvailabilityQuery struct {
	From             time.Time
	To               time.Time
	ServiceIDs       []uuid.UUID
	PreferredStaffID *uuid.UUID
}

// Parse reads dates as calendar days in loc. A missing "to" means a single day.
func (q AvailabilityQuery) Parse(loc *time.Location) (ParsedAvailabilityQuery, error) {
	var out ParsedAvailabilityQuery

	from, err := time.ParseInLocation(dateLayout, q.From, loc)
	if err != nil {
		return out, errs.Mark(errs.Wrapf(err, "invalid from date %q", q.From), ErrInvalidQuery)
	}
	to := from
	if q.To != "" {
		if to, err = time.ParseInLocation(dateLayout, q.To, loc); err != nil {
			return out, errs.Mark(errs.Wrapf(err, "invalid to date %q", q.To), ErrInvalidQuery)
		}
	}
	out.From, out.To = from, to

	for _, raw := range q.ServiceIDs {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return out, errs.Mark(errs.Wrapf(err, "invalid service id %q", part), ErrInvalidQuery)
			}
			out.ServiceIDs = append(out.ServiceIDs, id)
		}
	}

	if q.StaffID != "" {
		id, err := uuid.Parse(q.StaffID)
		if err != nil {
			return out, errs.Mark(errs.Wrapf(err, "invalid staff id %q", q.StaffID), ErrInvalidQuery)
		}
		out.PreferredStaffID = &id
	}
	return out, nil
}
