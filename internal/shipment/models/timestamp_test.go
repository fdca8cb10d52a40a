package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want Timestamp
	}{
		{"2024-02-05T09:30:00Z", At(time.Date(2024, 2, 5, 9, 30, 0, 0, time.UTC))},
		{"2024-02-05T09:30", At(time.Date(2024, 2, 5, 9, 30, 0, 0, time.UTC))},
		{"2024-02-05", Date(2024, time.February, 5)},
		{"  ", Timestamp{}},
		{"next tuesday", Timestamp{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestTimestamp_AbsentNeverOrders(t *testing.T) {
	set := Date(2024, time.February, 5)
	var absent Timestamp

	assert.False(t, absent.Before(set))
	assert.False(t, set.Before(absent))
	assert.False(t, absent.After(set))
	_, ok := set.Sub(absent)
	assert.False(t, ok)
	assert.True(t, absent.Equal(Timestamp{}))
}

func TestEarliestLatest_SkipAbsent(t *testing.T) {
	a := Date(2024, time.February, 3)
	b := Date(2024, time.February, 9)

	assert.True(t, a.Equal(Earliest(Timestamp{}, b, a)))
	assert.True(t, b.Equal(Latest(a, Timestamp{}, b)))
	assert.False(t, Earliest().IsSet())
	assert.False(t, Latest(Timestamp{}, Timestamp{}).IsSet())
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := At(time.Date(2024, 2, 5, 23, 50, 0, 0, time.UTC))
	to := At(time.Date(2024, 2, 7, 0, 10, 0, 0, time.UTC))

	days, ok := DaysBetween(from, to)
	require.True(t, ok)
	assert.Equal(t, 2, days)
}

func TestTimestamp_JSONTreatsGarbageAsAbsent(t *testing.T) {
	var doc struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
	}
	raw := `{"a":"2024-02-05","b":null,"c":42,"d":"soon"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.True(t, doc.A.Equal(Date(2024, time.February, 5)))
	assert.False(t, doc.B.IsSet())
	assert.False(t, doc.C.IsSet())
	assert.False(t, doc.D.IsSet())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2024-02-05T00:00:00Z","b":null,"c":null,"d":null}`, string(out))
}
