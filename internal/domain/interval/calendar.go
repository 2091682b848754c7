package interval

import (
	"fmt"
	"strconv"
	"time"

	"salon-booking/internal/pkg/errs"
)

var ErrInvalidWallClock = errs.New("wall clock time must be HH:MM between 00:00 and 24:00")

// WallClock is a local time of day, stored as minutes after midnight.
// 24:00 is accepted so that a window can close at the end of the day.
type WallClock int

const endOfDay WallClock = 24 * 60

func ParseWallClock(s string) (WallClock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, errs.Wrapf(ErrInvalidWallClock, "parse %q", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	wc := WallClock(h*60 + m)
	if m > 59 || wc > endOfDay {
		return 0, errs.Wrapf(ErrInvalidWallClock, "parse %q", s)
	}
	return wc, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func MustWallClock(s string) WallClock {
	wc, err := ParseWallClock(s)
	if err != nil {
		panic(err)
	}
	return wc
}

func (w WallClock) Hour() int   { return int(w) / 60 }
func (w WallClock) Minute() int { return int(w) % 60 }

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour(), w.Minute())
}

// On combines the wall-clock time with the calendar date of day, interpreted in loc.
// Wall times that fall into a DST gap are normalized forward by time.Date.
func (w WallClock) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, w.Hour(), w.Minute(), 0, 0, loc)
}

// Window resolves [open, close) on day. ok is false when close is not after open.
func Window(day time.Time, open, close WallClock, loc *time.Location) (Interval, bool) {
	start := open.On(day, loc)
	end := close.On(day, loc)
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// StartOfDay returns local midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Days lists every calendar day from from to to inclusive, as local midnights in loc.
func Days(from, to time.Time, loc *time.Location) []time.Time {
	start := StartOfDay(from, loc)
	end := StartOfDay(to, loc)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
