package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "06:30", want: 390},
		{in: "23:59", want: 23*60 + 59},
		{in: " 14:00 ", want: 840},
		{in: "08:15:45", want: 495},
		{in: "24:00", wantErr: true},
		{in: "7am", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeStringAndOrder(t *testing.T) {
	start, end := MustClock("06:05"), MustClock("14:05")
	assert.Equal(t, "06:05", start.String())
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
	assert.Equal(t, 480, start.MinutesUntil(end))
	assert.Equal(t, -480, end.MinutesUntil(start))
	assert.True(t, end.Valid())
	assert.False(t, ClockTime(24*60).Valid())
}

func TestClockTimeJSON(t *testing.T) {
	type payload struct {
		Start ClockTime `json:"start"`
	}
	b, err := json.Marshal(payload{Start: MustClock("22:00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"22:00"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"07:45"}`), &p))
	assert.Equal(t, MustClock("07:45"), p.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":745}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &p))
}

func TestClockTimeScan(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.Scan("09:30"))
	assert.Equal(t, MustClock("09:30"), c)

	require.NoError(t, c.Scan([]byte("10:00:00")))
	assert.Equal(t, MustClock("10:00"), c)

	require.NoError(t, c.Scan(time.Date(0, 1, 1, 17, 20, 0, 0, time.UTC)))
	assert.Equal(t, MustClock("17:20"), c)

	assert.Error(t, c.Scan(42))

	v, err := MustClock("05:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "05:00", v)
}

func TestParseDateAndDateOf(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)

	bogota := time.FixedZone("COT", -5*3600)
	late := time.Date(2025, 3, 10, 22, 30, 0, 0, bogota)
	assert.Equal(t, d, DateOf(late))
}
