package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
)

func TestShiftCreate(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")

	v := f.shift(t, route.ID, "monday", "06:00", "14:00", 11)
	assert.Equal(t, models.Monday, v.Weekday)
	assert.Equal(t, 8, v.DurationHours)
	assert.Equal(t, models.ShiftActive, v.Status)
	assert.Equal(t, "R-10", v.RouteName)
	assert.False(t, v.HasAssignment)
}

func TestShiftCreateValidation(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")

	tests := []struct {
		name  string
		input ShiftInput
		kind  error
	}{
		{
			name:  "longer than eight hours",
			input: ShiftInput{RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("06:00"), EndTime: clockPtr("14:01"), WeekNumber: 1},
			kind:  ErrValidation,
		},
		{
			name:  "end before start",
			input: ShiftInput{RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("14:00"), EndTime: clockPtr("06:00"), WeekNumber: 1},
			kind:  ErrValidation,
		},
		{
			name:  "zero length",
			input: ShiftInput{RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("14:00"), EndTime: clockPtr("14:00"), WeekNumber: 1},
			kind:  ErrValidation,
		},
		{
			name:  "unknown weekday",
			input: ShiftInput{RouteID: route.ID, Weekday: "LUNES", StartTime: clockPtr("06:00"), EndTime: clockPtr("10:00"), WeekNumber: 1},
			kind:  ErrValidation,
		},
		{
			name:  "week out of range",
			input: ShiftInput{RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("06:00"), EndTime: clockPtr("10:00"), WeekNumber: 53},
			kind:  ErrValidation,
		},
		{
			name:  "bad status",
			input: ShiftInput{RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("06:00"), EndTime: clockPtr("10:00"), WeekNumber: 1, Status: "paused"},
			kind:  ErrValidation,
		},
		{
			name:  "unknown route",
			input: ShiftInput{RouteID: 999, Weekday: "MONDAY", StartTime: clockPtr("06:00"), EndTime: clockPtr("10:00"), WeekNumber: 1},
			kind:  ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Shifts.Create(f.ctx, tt.input)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	n, err := f.store.Shifts.Count(f.ctx, repository.ShiftFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestShiftExactlyEightHoursAllowed(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	v := f.shift(t, route.ID, "SUNDAY", "15:59", "23:59", 1)
	assert.Equal(t, 8, v.DurationHours)
}

func TestShiftUpdate(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	other := f.route(t, "R-20")
	v := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 1)

	updated, err := f.svc.Shifts.Update(f.ctx, v.ID, ShiftInput{
		RouteID:    other.ID,
		Weekday:    "TUESDAY",
		StartTime:  clockPtr("08:00"),
		EndTime:    clockPtr("12:00"),
		WeekNumber: 2,
		Status:     "inactive",
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.RouteID)
	assert.Equal(t, "R-20", updated.RouteName)
	assert.Equal(t, models.Tuesday, updated.Weekday)
	assert.Equal(t, 4, updated.DurationHours)
	assert.Equal(t, models.ShiftInactive, updated.Status)

	_, err = f.svc.Shifts.Update(f.ctx, v.ID, ShiftInput{
		RouteID: other.ID, Weekday: "TUESDAY", StartTime: clockPtr("00:00"), EndTime: clockPtr("12:00"), WeekNumber: 2,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Shifts.Update(f.ctx, 4242, ShiftInput{
		RouteID: other.ID, Weekday: "TUESDAY", StartTime: clockPtr("08:00"), EndTime: clockPtr("12:00"), WeekNumber: 2,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftUpdateCannotDoubleBookAssignedDriver(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")
	mon := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 1)
	tue := f.shift(t, route.ID, "TUESDAY", "06:00", "14:00", 1)
	f.assign(t, d.ID, mon.ID, "2025-03-10", "")
	f.assign(t, d.ID, tue.ID, "2025-03-10", "")

	_, err := f.svc.Shifts.Update(f.ctx, tue.ID, ShiftInput{
		RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("07:00"), EndTime: clockPtr("13:00"), WeekNumber: 1,
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "driver Ana Gómez already works MONDAY 06:00-14:00 in week 1")

	unchanged, err := f.svc.Shifts.Get(f.ctx, tue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Tuesday, unchanged.Weekday)
	assert.Equal(t, "06:00", unchanged.StartTime.String())

	// A slot next to the driver's other shift is fine.
	moved, err := f.svc.Shifts.Update(f.ctx, tue.ID, ShiftInput{
		RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("14:00"), EndTime: clockPtr("22:00"), WeekNumber: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Monday, moved.Weekday)

	// So is the same slot in another week.
	_, err = f.svc.Shifts.Update(f.ctx, tue.ID, ShiftInput{
		RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("07:00"), EndTime: clockPtr("13:00"), WeekNumber: 2,
	})
	require.NoError(t, err)
}

func TestShiftUpdateRefusesDeactivatingAssignedShift(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")
	v := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 1)
	a := f.assign(t, d.ID, v.ID, "2025-03-10", "")

	deactivate := ShiftInput{
		RouteID: route.ID, Weekday: "MONDAY", StartTime: clockPtr("06:00"), EndTime: clockPtr("14:00"), WeekNumber: 1, Status: "inactive",
	}
	_, err := f.svc.Shifts.Update(f.ctx, v.ID, deactivate)
	require.ErrorIs(t, err, ErrConflict)

	today, err := f.svc.Assignments.TodayForDriverUser(f.ctx, d.UserID)
	require.NoError(t, err)
	assert.Len(t, today, 1)

	_, err = f.svc.Assignments.Cancel(f.ctx, a.ID)
	require.NoError(t, err)

	updated, err := f.svc.Shifts.Update(f.ctx, v.ID, deactivate)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftInactive, updated.Status)
}

func TestShiftListOrderAndFilters(t *testing.T) {
	f := newFixture(t)
	r1 := f.route(t, "R-10")
	r2 := f.route(t, "R-20")

	f.shift(t, r1.ID, "WEDNESDAY", "06:00", "14:00", 1)
	f.shift(t, r1.ID, "MONDAY", "14:00", "22:00", 1)
	f.shift(t, r1.ID, "MONDAY", "06:00", "14:00", 1)
	f.shift(t, r1.ID, "MONDAY", "06:00", "14:00", 2)
	f.shift(t, r2.ID, "SUNDAY", "06:00", "14:00", 1)

	views, err := f.svc.Shifts.ListByRouteAndWeek(f.ctx, r1.ID, 1)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, models.Monday, views[0].Weekday)
	assert.Equal(t, "06:00", views[0].StartTime.String())
	assert.Equal(t, models.Monday, views[1].Weekday)
	assert.Equal(t, "14:00", views[1].StartTime.String())
	assert.Equal(t, models.Wednesday, views[2].Weekday)

	byRoute, err := f.svc.Shifts.ListByRoute(f.ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, byRoute, 4)

	all, err := f.svc.Shifts.List(f.ctx, repository.ShiftFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = f.svc.Shifts.ListByRoute(f.ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Shifts.ListByRouteAndWeek(f.ctx, r1.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShiftViewShowsTodaysDriver(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")
	assigned := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 11)
	future := f.shift(t, route.ID, "MONDAY", "14:00", "22:00", 11)

	f.assign(t, d.ID, assigned.ID, "2025-03-10", "")
	f.assign(t, d.ID, future.ID, "2025-03-17", "")

	views, err := f.svc.Shifts.ListByRouteAndWeek(f.ctx, route.ID, 11)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.True(t, views[0].HasAssignment)
	assert.Equal(t, "Ana Gómez", views[0].AssignedDriver)
	assert.Equal(t, d.ID, views[0].AssignedDriverID)

	assert.False(t, views[1].HasAssignment)
	assert.Empty(t, views[1].AssignedDriver)
}

func TestShiftDeleteBlockedByActiveAssignment(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")
	v := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 1)
	a := f.assign(t, d.ID, v.ID, "2025-03-10", "")

	err := f.svc.Shifts.Delete(f.ctx, v.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "cannot delete a shift with active assignments")

	_, err = f.svc.Shifts.Get(f.ctx, v.ID)
	require.NoError(t, err)

	_, err = f.svc.Assignments.Cancel(f.ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Shifts.Delete(f.ctx, v.ID))

	_, err = f.svc.Shifts.Get(f.ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Assignments.Get(f.ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.svc.Shifts.Delete(f.ctx, v.ID), ErrNotFound)
}

func TestDeleteHistoryKeepsActiveAssignments(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	d := f.driver(t, "Ana Gómez", "1001", "ana@fleet.com")
	v := f.shift(t, route.ID, "MONDAY", "06:00", "14:00", 1)
	old := f.assign(t, d.ID, v.ID, "2025-03-03", "2025-03-09")
	_, err := f.svc.Assignments.Cancel(f.ctx, old.ID)
	require.NoError(t, err)
	current := f.assign(t, d.ID, v.ID, "2025-03-10", "")

	require.NoError(t, f.store.Assignments.DeleteHistoryByShift(f.ctx, v.ID))
	_, err = f.svc.Assignments.Get(f.ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Assignments.Get(f.ctx, current.ID)
	require.NoError(t, err)

	require.NoError(t, f.store.Assignments.DeleteHistoryByDriver(f.ctx, d.ID))
	_, err = f.svc.Assignments.Get(f.ctx, current.ID)
	require.NoError(t, err)
}

func TestShiftGenerate(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")

	views, err := f.svc.Shifts.Generate(f.ctx, GenerateInput{
		RouteID:    route.ID,
		StartTime:  clockPtr("05:00"),
		EndTime:    clockPtr("23:00"),
		WeekNumber: 12,
	})
	require.NoError(t, err)
	// 05-13, 13-21, 21-23 on each of the seven days.
	require.Len(t, views, 21)

	perDay := map[models.Weekday]int{}
	for _, v := range views {
		perDay[v.Weekday]++
		assert.Equal(t, 12, v.WeekNumber)
		assert.Equal(t, "R-10", v.RouteName)
		assert.LessOrEqual(t, v.StartTime.MinutesUntil(v.EndTime), models.MaxShiftMinutes)
		assert.NotZero(t, v.ID)
	}
	for _, day := range models.Week {
		assert.Equal(t, 3, perDay[day], day)
	}

	assert.Equal(t, models.Monday, views[0].Weekday)
	assert.Equal(t, "05:00", views[0].StartTime.String())
	assert.Equal(t, "13:00", views[0].EndTime.String())
	assert.Equal(t, "23:00", views[2].EndTime.String())
	assert.Equal(t, 2, views[2].DurationHours)
	assert.Equal(t, models.Sunday, views[20].Weekday)
}

func TestShiftGenerateRejectsBadWindow(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")

	_, err := f.svc.Shifts.Generate(f.ctx, GenerateInput{RouteID: route.ID, StartTime: clockPtr("22:00"), EndTime: clockPtr("06:00"), WeekNumber: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Shifts.Generate(f.ctx, GenerateInput{RouteID: route.ID, StartTime: clockPtr("10:00"), EndTime: clockPtr("10:45"), WeekNumber: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Shifts.Generate(f.ctx, GenerateInput{RouteID: 77, StartTime: clockPtr("06:00"), EndTime: clockPtr("10:00"), WeekNumber: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := f.store.Shifts.Count(f.ctx, repository.ShiftFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestShiftCopyWeek(t *testing.T) {
	f := newFixture(t)
	route := f.route(t, "R-10")
	other := f.route(t, "R-20")

	_, err := f.svc.Shifts.Generate(f.ctx, GenerateInput{RouteID: route.ID, StartTime: clockPtr("06:00"), EndTime: clockPtr("22:00"), WeekNumber: 3})
	require.NoError(t, err)
	f.shift(t, other.ID, "MONDAY", "06:00", "10:00", 3)

	copied, err := f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: route.ID, SourceWeek: 3, TargetWeek: 4})
	require.NoError(t, err)
	require.Len(t, copied, 14)
	for _, v := range copied {
		assert.Equal(t, 4, v.WeekNumber)
		assert.Equal(t, route.ID, v.RouteID)
	}

	source, err := f.svc.Shifts.ListByRouteAndWeek(f.ctx, route.ID, 3)
	require.NoError(t, err)
	assert.Len(t, source, 14)

	otherWeek4, err := f.svc.Shifts.ListByRouteAndWeek(f.ctx, other.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, otherWeek4)

	_, err = f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: route.ID, SourceWeek: 3, TargetWeek: 4})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: route.ID, SourceWeek: 3, TargetWeek: 3})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: 999, SourceWeek: 3, TargetWeek: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: route.ID, SourceWeek: 9, TargetWeek: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Shifts.CopyWeek(f.ctx, CopyWeekInput{RouteID: route.ID, SourceWeek: 3, TargetWeek: 60})
	assert.ErrorIs(t, err, ErrValidation)
}
