package interpreter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"tennis-booking/internal/booking"
)

// DateResolver turns a date/time expression into an absolute time relative
// to now. Results are in now's location.
type DateResolver interface {
	Resolve(text string, now time.Time) (time.Time, bool)
}

// ChainResolver returns the first successful resolution.
type ChainResolver struct {
	resolvers []DateResolver
}

func NewChainResolver(resolvers ...DateResolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

// NewDateResolver tries natural language first, then the "today/tomorrow
// at HH:MM" forms the model is told to emit, then the strict absolute form.
func NewDateResolver() *ChainResolver {
	return NewChainResolver(NaturalResolver{}, RelativeResolver{}, StrictResolver{})
}

func (c *ChainResolver) Resolve(text string, now time.Time) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, false
	}
	for _, r := range c.resolvers {
		if t, ok := r.Resolve(text, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// NaturalResolver wraps go-dateparser, preferring future dates and the
// current day of month.
type NaturalResolver struct{}

func (NaturalResolver) Resolve(text string, now time.Time) (time.Time, bool) {
	cfg := &dps.Configuration{
		CurrentTime:         now,
		DefaultTimezone:     now.Location(),
		PreferredDateSource: dps.Future,
		PreferredDayOfMonth: dps.Current,
	}

	dt, err := dps.Parse(cfg, text)
	if err != nil || dt.IsZero() {
		return time.Time{}, false
	}
	return dt.Time.In(now.Location()), true
}

var (
	dayAtPattern     = regexp.MustCompile(`^(today|tonight|tomorrow)\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
	weekdayAtPattern = regexp.MustCompile(`^(next\s+|this\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// RelativeResolver handles "today at HH:MM", "tomorrow at HH:MM" and
// "[next] <weekday> at HH:MM". "next" always means a later week day than
// today; a bare weekday may be today.
type RelativeResolver struct{}

func (RelativeResolver) Resolve(text string, now time.Time) (time.Time, bool) {
	if m := dayAtPattern.FindStringSubmatch(text); m != nil {
		hour, minute, ok := clockTime(m[2], m[3], m[4])
		if !ok {
			return time.Time{}, false
		}
		days := 0
		if m[1] == "tomorrow" {
			days = 1
		}
		return atClock(now, days, hour, minute), true
	}

	if m := weekdayAtPattern.FindStringSubmatch(text); m != nil {
		hour, minute, ok := clockTime(m[3], m[4], m[5])
		if !ok {
			return time.Time{}, false
		}
		days := (int(weekdays[m[2]]) - int(now.Weekday()) + 7) % 7
		if days == 0 && strings.HasPrefix(m[1], "next") {
			days = 7
		}
		return atClock(now, days, hour, minute), true
	}

	return time.Time{}, false
}

// StrictResolver parses "YYYY-MM-DD HH:MM" in now's location.
type StrictResolver struct{}

func (StrictResolver) Resolve(text string, now time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation(booking.TimestampLayout, text, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func clockTime(hourStr, minuteStr, meridiem string) (int, int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, 0, false
	}
	minute := 0
	if minuteStr != "" {
		if minute, err = strconv.Atoi(minuteStr); err != nil {
			return 0, 0, false
		}
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// atClock returns now's calendar date shifted by days, at hour:minute.
// AddDate normalizes month ends, so the 31st plus one day is the 1st.
func atClock(now time.Time, days, hour, minute int) time.Time {
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
}
