package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateFormat is the only accepted date layout.
const DateFormat = "2006-01-02"

// DateRange is an optional start/end pair.
type DateRange struct {
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

func (d DateRange) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.StartDate, validation.Date(DateFormat)),
		validation.Field(&d.EndDate, validation.Date(DateFormat)),
	)
}

// Resolve fills missing bounds: end defaults to today, start to 30 days before end.
func (d DateRange) Resolve(now time.Time) (start, end time.Time) {
	end = now.Truncate(24 * time.Hour)
	if t, err := time.Parse(DateFormat, d.EndDate); err == nil {
		end = t
	}
	start = end.AddDate(0, 0, -30)
	if t, err := time.Parse(DateFormat, d.StartDate); err == nil {
		start = t
	}
	return start, end
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateFormat, s)
	return t, err == nil
}
