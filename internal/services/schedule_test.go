package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet_shifts/internal/models"
)

func TestSplitWindow(t *testing.T) {
	w := func(start, end string) Window {
		return Window{Start: models.MustClock(start), End: models.MustClock(end)}
	}

	tests := []struct {
		name       string
		start, end string
		maxLen     int
		want       []Window
	}{
		{
			name: "two full shifts", start: "06:00", end: "22:00", maxLen: 480,
			want: []Window{w("06:00", "14:00"), w("14:00", "22:00")},
		},
		{
			name: "short tail kept when at least an hour", start: "06:00", end: "23:30", maxLen: 480,
			want: []Window{w("06:00", "14:00"), w("14:00", "22:00"), w("22:00", "23:30")},
		},
		{
			name: "tail under an hour dropped", start: "06:00", end: "22:30", maxLen: 480,
			want: []Window{w("06:00", "14:00"), w("14:00", "22:00")},
		},
		{
			name: "window shorter than max", start: "08:00", end: "12:00", maxLen: 480,
			want: []Window{w("08:00", "12:00")},
		},
		{name: "window under an hour", start: "08:00", end: "08:30", maxLen: 480},
		{name: "reversed window", start: "22:00", end: "06:00", maxLen: 480},
		{name: "no max", start: "06:00", end: "22:00", maxLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWindow(models.MustClock(tt.start), models.MustClock(tt.end), tt.maxLen, models.MinShiftMinutes)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitWindowNeverExceedsMax(t *testing.T) {
	for _, win := range SplitWindow(0, models.MustClock("23:59"), models.MaxShiftMinutes, models.MinShiftMinutes) {
		assert.LessOrEqual(t, win.Minutes(), models.MaxShiftMinutes)
		assert.GreaterOrEqual(t, win.Minutes(), models.MinShiftMinutes)
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := Window{Start: models.MustClock("06:00"), End: models.MustClock("14:00")}
	assert.True(t, a.Overlaps(Window{Start: models.MustClock("13:00"), End: models.MustClock("15:00")}))
	assert.True(t, a.Overlaps(Window{Start: models.MustClock("07:00"), End: models.MustClock("08:00")}))
	assert.False(t, a.Overlaps(Window{Start: models.MustClock("14:00"), End: models.MustClock("22:00")}))
	assert.False(t, a.Overlaps(Window{Start: models.MustClock("00:00"), End: models.MustClock("06:00")}))
}
