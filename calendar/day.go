package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// DAY TYPE
// =============================================================================

type DayType string

const (
	DayWorking      DayType = "working"
	DayLeave        DayType = "leave"
	DayHoliday      DayType = "holiday"
	DayHalfDay      DayType = "half_day"
	DayExtraWorking DayType = "extra_working"
	DayWeekend      DayType = "weekend"
)

// DayTypes lists every classification in display order.
var DayTypes = []DayType{DayWorking, DayLeave, DayHoliday, DayHalfDay, DayExtraWorking, DayWeekend}

func (t DayType) Valid() bool {
	for _, known := range DayTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParseDayType(s string) (DayType, error) {
	t := DayType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", &generic.ValidationError{Field: "day_type", Value: s, Reason: "unknown day type"}
	}
	return t, nil
}

// =============================================================================
// DAY RECORD - explicit, persisted classification of one date
// =============================================================================

// DayRecord is what the user recorded for a date. At most one per date;
// writing a date that already has a record replaces it.
type DayRecord struct {
	ID        int64
	Date      generic.Date
	Type      DayType
	ProjectID string // empty when not tied to a project
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r DayRecord) Validate() error {
	if r.Date.IsZero() {
		return &generic.ValidationError{Field: "date", Reason: "required"}
	}
	if !r.Type.Valid() {
		return &generic.ValidationError{Field: "day_type", Value: string(r.Type), Reason: "unknown day type"}
	}
	return nil
}

// =============================================================================
// ENTRY - a day in a month view, recorded or implicit
// =============================================================================

// Entry is one day in an augmented month. It is either Recorded (backed by
// a persisted DayRecord) or Implicit (synthesized, never stored).
type Entry interface {
	Date() generic.Date
	Type() DayType
	isEntry()
}

// Recorded wraps a persisted DayRecord.
type Recorded struct {
	Record DayRecord
}

func (r Recorded) Date() generic.Date { return r.Record.Date }
func (r Recorded) Type() DayType      { return r.Record.Type }
func (Recorded) isEntry()             {}

// Implicit is a weekday with no record and no holiday. It is always a
// working day and has no project or notes.
type Implicit struct {
	On generic.Date
}

func (i Implicit) Date() generic.Date { return i.On }
func (Implicit) Type() DayType        { return DayWorking }
func (Implicit) isEntry()             {}

func (i Implicit) String() string { return fmt.Sprintf("%s implicit working", i.On) }

// ProjectOf returns the project an entry is booked to, if any.
func ProjectOf(e Entry) string {
	if r, ok := e.(Recorded); ok {
		return r.Record.ProjectID
	}
	return ""
}

// IsImplicit reports whether e was synthesized.
func IsImplicit(e Entry) bool {
	_, ok := e.(Implicit)
	return ok
}
