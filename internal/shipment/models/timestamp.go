package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is an optional instant. The zero value means the fact has not
// been recorded yet; engines treat it as "not satisfied" and leave it out of
// every min/max reduction.
type Timestamp struct {
	t     time.Time
	valid bool
}

// Layouts accepted when decoding a timestamp, most precise first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const day = 24 * time.Hour

// At records t. A zero time.Time stays absent.
func At(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t.UTC(), valid: true}
}

// Date is a UTC midnight timestamp, handy for date-only facts.
func Date(year int, month time.Month, dayOfMonth int) Timestamp {
	return At(time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC))
}

// ParseTimestamp is lenient: anything it cannot read is absent.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t)
		}
	}
	return Timestamp{}
}

func (ts Timestamp) IsSet() bool { return ts.valid }

// Time returns the instant, or the zero time when absent.
func (ts Timestamp) Time() time.Time { return ts.t }

func (ts Timestamp) Before(o Timestamp) bool {
	return ts.valid && o.valid && ts.t.Before(o.t)
}

func (ts Timestamp) After(o Timestamp) bool {
	return ts.valid && o.valid && ts.t.After(o.t)
}

func (ts Timestamp) Equal(o Timestamp) bool {
	if !ts.valid || !o.valid {
		return ts.valid == o.valid
	}
	return ts.t.Equal(o.t)
}

// Sub reports ts - o; ok is false unless both are set.
func (ts Timestamp) Sub(o Timestamp) (d time.Duration, ok bool) {
	if !ts.valid || !o.valid {
		return 0, false
	}
	return ts.t.Sub(o.t), true
}

// Midnight drops the time-of-day.
func (ts Timestamp) Midnight() Timestamp {
	if !ts.valid {
		return ts
	}
	y, m, d := ts.t.Date()
	return Date(y, m, d)
}

// DaysBetween counts whole calendar days from a to b, ignoring time-of-day.
func DaysBetween(a, b Timestamp) (int, bool) {
	d, ok := b.Midnight().Sub(a.Midnight())
	if !ok {
		return 0, false
	}
	return int(d / day), true
}

// Earliest returns the minimum of the set timestamps.
func Earliest(values ...Timestamp) Timestamp {
	var out Timestamp
	for _, v := range values {
		if v.valid && (!out.valid || v.t.Before(out.t)) {
			out = v
		}
	}
	return out
}

// Latest returns the maximum of the set timestamps.
func Latest(values ...Timestamp) Timestamp {
	var out Timestamp
	for _, v := range values {
		if v.valid && (!out.valid || v.t.After(out.t)) {
			out = v
		}
	}
	return out
}

func (ts Timestamp) String() string {
	if !ts.valid {
		return ""
	}
	return ts.t.Format(time.RFC3339)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}

// UnmarshalJSON never fails: null, non-strings and unparseable strings all
// decode as absent.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*ts = ParseTimestamp(s)
	return nil
}
