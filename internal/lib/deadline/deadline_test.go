package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, seoul)

	tests := []struct {
		name string
		end  time.Time
		loc  *time.Location
		want int
	}{
		{name: "same day", end: time.Date(2024, 3, 10, 0, 0, 0, 0, seoul), loc: seoul, want: 0},
		{name: "three days", end: time.Date(2024, 3, 13, 0, 0, 0, 0, seoul), loc: seoul, want: 3},
		{name: "past", end: time.Date(2024, 3, 9, 0, 0, 0, 0, seoul), loc: seoul, want: -1},
		{name: "over month boundary", end: time.Date(2024, 4, 1, 12, 0, 0, 0, seoul), loc: seoul, want: 22},
		// в UTC now ещё 10 марта 14:30, конец 13 марта 00:00 KST = 12 марта 15:00 UTC
		{name: "utc view", end: time.Date(2024, 3, 13, 0, 0, 0, 0, seoul), loc: nil, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(now, tt.end, tt.loc))
		})
	}
}

func TestWindowDays(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	days, ok := WindowDays(&start, &end)
	assert.True(t, ok)
	assert.Equal(t, 31, days)

	_, ok = WindowDays(nil, &end)
	assert.False(t, ok)
	_, ok = WindowDays(&start, nil)
	assert.False(t, ok)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		t      time.Time
		months int
		want   time.Time
	}{
		{
			name:   "regular",
			t:      time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "end of month clamps in leap year",
			t:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "end of month clamps",
			t:      time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "year rollover",
			t:      time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.t, tt.months))
		})
	}
}
