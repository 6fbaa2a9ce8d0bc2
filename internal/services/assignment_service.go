package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/notify"
	"fleet_shifts/internal/repository"
)

// Notifier receives assignment changes for a driver.
type Notifier interface {
	Notify(driverID uint, eventType string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uint, string, any) {}

// AssignmentService puts drivers on shifts.
type AssignmentService struct {
	store    *repository.Store
	notifier Notifier
	loc      *time.Location
	now      func() time.Time
}

func NewAssignmentService(store *repository.Store, notifier Notifier, loc *time.Location) *AssignmentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AssignmentService{store: store, notifier: notifier, loc: loc, now: time.Now}
}

// AssignInput dates are YYYY-MM-DD. An empty EndDate leaves the assignment open.
type AssignInput struct {
	DriverID  uint   `json:"driver_id" binding:"required"`
	ShiftID   uint   `json:"shift_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
}

func (s *AssignmentService) today() time.Time {
	return models.DateOf(s.now().In(s.loc))
}

func (s *AssignmentService) Assign(ctx context.Context, input AssignInput) (*models.ShiftAssignment, error) {
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	var created *models.ShiftAssignment
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		driver, shift, err := loadAssignable(ctx, tx, input.DriverID, input.ShiftID)
		if err != nil {
			return err
		}
		if err := checkAssignmentConflicts(ctx, tx, driver, shift, start, end, 0); err != nil {
			return err
		}
		created = &models.ShiftAssignment{
			ShiftID:   shift.ID,
			DriverID:  driver.ID,
			StartDate: start,
			EndDate:   end,
			Status:    models.AssignmentActive,
		}
		if err := tx.Assignments.Create(ctx, created); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	assignment, err := s.Get(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"driver_id":     assignment.DriverID,
		"shift_id":      assignment.ShiftID,
	}).Info("shift assigned")
	s.notifier.Notify(assignment.DriverID, notify.EventAssignmentCreated, assignment)
	return assignment, nil
}

// Update moves an active assignment to another driver, shift or date range.
func (s *AssignmentService) Update(ctx context.Context, id uint, input AssignInput) (*models.ShiftAssignment, error) {
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	var previousDriver uint
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Assignments.FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "assignment", id)
		}
		if current.Status != models.AssignmentActive {
			return conflict("assignment %d is %s and cannot be changed", id, current.Status)
		}
		previousDriver = current.DriverID

		driver, shift, err := loadAssignable(ctx, tx, input.DriverID, input.ShiftID)
		if err != nil {
			return err
		}
		if err := checkAssignmentConflicts(ctx, tx, driver, shift, start, end, id); err != nil {
			return err
		}

		current.DriverID = driver.ID
		current.ShiftID = shift.ID
		current.StartDate = start
		current.EndDate = end
		current.Driver, current.Shift = nil, nil
		if err := tx.Assignments.Save(ctx, current); err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if previousDriver != assignment.DriverID {
		s.notifier.Notify(previousDriver, notify.EventAssignmentCancelled, assignment)
		s.notifier.Notify(assignment.DriverID, notify.EventAssignmentCreated, assignment)
	} else {
		s.notifier.Notify(assignment.DriverID, notify.EventAssignmentUpdated, assignment)
	}
	return assignment, nil
}

// Cancel ends an active assignment. The record is kept as history.
func (s *AssignmentService) Cancel(ctx context.Context, id uint) (*models.ShiftAssignment, error) {
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Status != models.AssignmentActive {
		return nil, conflict("assignment %d is already %s", id, assignment.Status)
	}

	assignment.Status = models.AssignmentCancelled
	if err := s.store.Assignments.Save(ctx, assignment); err != nil {
		return nil, fmt.Errorf("cancel assignment: %w", err)
	}

	logrus.WithField("assignment_id", id).Info("assignment cancelled")
	s.notifier.Notify(assignment.DriverID, notify.EventAssignmentCancelled, assignment)
	return assignment, nil
}

func (s *AssignmentService) Get(ctx context.Context, id uint) (*models.ShiftAssignment, error) {
	a, err := s.store.Assignments.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "assignment", id)
	}
	return a, nil
}

func (s *AssignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]models.ShiftAssignment, error) {
	if filter.Status != "" {
		status := strings.ToLower(filter.Status)
		switch status {
		case models.AssignmentActive, models.AssignmentFinished, models.AssignmentCancelled:
			filter.Status = status
		default:
			return nil, invalid("invalid assignment status %q", filter.Status)
		}
	}
	out, err := s.store.Assignments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// ListForDriverUser lists the assignments of the driver behind a login.
func (s *AssignmentService) ListForDriverUser(ctx context.Context, userID uint) ([]models.ShiftAssignment, error) {
	driver, err := s.store.Drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "driver profile for user", userID)
	}
	return s.List(ctx, repository.AssignmentFilter{DriverID: driver.ID})
}

// TodayForDriverUser returns the shifts the driver works today: active
// assignments covering today on a shift scheduled for today's weekday.
func (s *AssignmentService) TodayForDriverUser(ctx context.Context, userID uint) ([]models.ShiftAssignment, error) {
	driver, err := s.store.Drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "driver profile for user", userID)
	}
	today := s.today()
	active, err := s.store.Assignments.ActiveForDriverOn(ctx, driver.ID, today)
	if err != nil {
		return nil, fmt.Errorf("load today's assignments: %w", err)
	}
	weekday := models.WeekdayOf(today)
	out := make([]models.ShiftAssignment, 0, len(active))
	for _, a := range active {
		if a.Shift != nil && a.Shift.Status == models.ShiftActive && a.Shift.Weekday == weekday {
			out = append(out, a)
		}
	}
	return out, nil
}

// ExpireFinished closes every active assignment whose end date has passed.
func (s *AssignmentService) ExpireFinished(ctx context.Context) (int64, error) {
	n, err := s.store.Assignments.ExpireBefore(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("expire assignments: %w", err)
	}
	if n > 0 {
		logrus.WithField("count", n).Info("assignments marked finished")
	}
	return n, nil
}

func parseDateRange(startRaw, endRaw string) (time.Time, *time.Time, error) {
	start, err := models.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, nil, invalid("%v", err)
	}
	if strings.TrimSpace(endRaw) == "" {
		return start, nil, nil
	}
	end, err := models.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, nil, invalid("%v", err)
	}
	if end.Before(start) {
		return time.Time{}, nil, invalid("end_date must not be before start_date")
	}
	return start, &end, nil
}

// loadAssignable fetches the driver and shift and checks both can take an assignment.
func loadAssignable(ctx context.Context, store *repository.Store, driverID, shiftID uint) (*models.Driver, *models.Shift, error) {
	driver, err := store.Drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, nil, lookupErr(err, "driver", driverID)
	}
	if driver.Status != models.DriverActive {
		return nil, nil, invalid("driver %s is not active", driver.FullName)
	}
	shift, err := store.Shifts.FindByID(ctx, shiftID)
	if err != nil {
		return nil, nil, lookupErr(err, "shift", shiftID)
	}
	if shift.Status != models.ShiftActive {
		return nil, nil, invalid("shift %d is not active", shiftID)
	}
	return driver, shift, nil
}

// checkAssignmentConflicts rejects a second driver on the same shift for
// overlapping dates, and a driver booked on two overlapping shifts of the
// same day of the same week. excludeID skips the assignment being edited.
func checkAssignmentConflicts(ctx context.Context, store *repository.Store, driver *models.Driver, shift *models.Shift, start time.Time, end *time.Time, excludeID uint) error {
	onShift, err := store.Assignments.ActiveByShift(ctx, shift.ID)
	if err != nil {
		return fmt.Errorf("load shift assignments: %w", err)
	}
	for _, a := range onShift {
		if a.ID != excludeID && a.OverlapsRange(start, end) {
			return conflict("shift %d is already assigned for those dates", shift.ID)
		}
	}
	return checkDriverOverlap(ctx, store, driver, shift, start, end, excludeID)
}

// checkDriverOverlap rejects booking driver on shift when another of the
// driver's active assignments sits on an overlapping slot of the same day
// and week for overlapping dates.
func checkDriverOverlap(ctx context.Context, store *repository.Store, driver *models.Driver, shift *models.Shift, start time.Time, end *time.Time, excludeID uint) error {
	window := Window{Start: shift.StartTime, End: shift.EndTime}
	byDriver, err := store.Assignments.ActiveByDriver(ctx, driver.ID)
	if err != nil {
		return fmt.Errorf("load driver assignments: %w", err)
	}
	for _, a := range byDriver {
		if a.ID == excludeID || a.ShiftID == shift.ID || a.Shift == nil {
			continue
		}
		other := a.Shift
		if other.WeekNumber != shift.WeekNumber || other.Weekday != shift.Weekday {
			continue
		}
		if !window.Overlaps(Window{Start: other.StartTime, End: other.EndTime}) {
			continue
		}
		if a.OverlapsRange(start, end) {
			return conflict("driver %s already works %s %s-%s in week %d",
				driver.FullName, other.Weekday, other.StartTime, other.EndTime, other.WeekNumber)
		}
	}
	return nil
}
