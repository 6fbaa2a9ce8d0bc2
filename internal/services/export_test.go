package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWeek(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")

	_, err := f.svc.Shifts.Generate(f.ctx, GenerateInput{RouteID: route.ID, StartTime: clockPtr("06:00"), EndTime: clockPtr("22:00"), WeekNumber: 7})
	require.NoError(t, err)
	views, err := f.svc.Shifts.ListByRouteAndWeek(f.ctx, route.ID, 7)
	require.NoError(t, err)
	f.assign(t, d.ID, views[0].ID, "2025-03-10", "")

	buf, name, err := f.svc.Shifts.ExportWeek(f.ctx, route.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, "route-1-week-07.xlsx", name)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2+14)
	assert.Equal(t, "R-10 - week 7", rows[0][0])
	assert.Equal(t, []string{"Weekday", "Start", "End", "Hours", "Status", "Assigned driver"}, rows[1])
	assert.Equal(t, []string{"MONDAY", "06:00", "14:00", "8", "active", "Ana Gómez"}, rows[2])
	assert.Equal(t, []string{"MONDAY", "14:00", "22:00", "8", "active", "-"}, rows[3])
	assert.Equal(t, "SUNDAY", rows[15][0])

	_, _, err = f.svc.Shifts.ExportWeek(f.ctx, 999, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.svc.Shifts.ExportWeek(f.ctx, route.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}
