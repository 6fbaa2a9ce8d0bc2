package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
	"fleet_shifts/internal/testutil"
)

// 2025-03-10 is a Monday.
var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type sentEvent struct {
	DriverID uint
	Type     string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(driverID uint, eventType string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{DriverID: driverID, Type: eventType})
}

func (n *recordingNotifier) sent() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}

type fixture struct {
	ctx      context.Context
	store    *repository.Store
	svc      *Services
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	middleware.Configure("test-secret", time.Hour)

	store := testutil.NewStore(t)
	notifier := &recordingNotifier{}
	svc := New(store, notifier, time.UTC, "password123")
	svc.Shifts.now = func() time.Time { return fixedNow }
	svc.Assignments.now = func() time.Time { return fixedNow }

	return &fixture{ctx: context.Background(), store: store, svc: svc, notifier: notifier}
}

func (f *fixture) route(t *testing.T, name string) *models.Route {
	t.Helper()
	r, err := f.svc.Routes.Create(f.ctx, CreateRouteInput{Name: name, Origin: "North", Destination: "South"})
	require.NoError(t, err)
	return r
}

func (f *fixture) driver(t *testing.T, name, nationalID, email string) *models.Driver {
	t.Helper()
	d, err := f.svc.Drivers.Create(f.ctx, CreateDriverInput{
		FullName:      name,
		NationalID:    nationalID,
		LicenseNumber: "C2-" + nationalID,
		Email:         email,
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) shift(t *testing.T, routeID uint, weekday, start, end string, week int) *ShiftView {
	t.Helper()
	s, e := models.MustClock(start), models.MustClock(end)
	v, err := f.svc.Shifts.Create(f.ctx, ShiftInput{
		RouteID:    routeID,
		Weekday:    weekday,
		StartTime:  &s,
		EndTime:    &e,
		WeekNumber: week,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) assign(t *testing.T, driverID, shiftID uint, start, end string) *models.ShiftAssignment {
	t.Helper()
	a, err := f.svc.Assignments.Assign(f.ctx, AssignInput{DriverID: driverID, ShiftID: shiftID, StartDate: start, EndDate: end})
	require.NoError(t, err)
	return a
}

func clockPtr(s string) *models.ClockTime {
	c := models.MustClock(s)
	return &c
}
