package clock

import (
	"fmt"
	"strings"
	"time"
)

// All dates served by the app are civil dates in IST (Asia/Kolkata,
// UTC+5:30), regardless of the host timezone.
var ist *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+30*60)
	}
	ist = loc
}

// IST returns the reference timezone.
func IST() *time.Location { return ist }

// Clock abstracts the current instant so tests can pin it.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// CivilDate is a calendar date in the reference timezone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday is the upper-case day name used in payloads and history keys.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// AllWeekdays lists the seven weekdays in calendar order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday maps a case-insensitive day name to a Weekday.
func ParseWeekday(s string) (Weekday, bool) {
	w := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	for _, d := range AllWeekdays {
		if w == d {
			return d, true
		}
	}
	return "", false
}

// Resolve converts an instant to its IST civil date and weekday.
// Total function: every instant maps to exactly one (date, weekday).
func Resolve(now time.Time) (CivilDate, Weekday) {
	t := now.In(ist)
	d := CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return d, Weekday(strings.ToUpper(t.Weekday().String()))
}
