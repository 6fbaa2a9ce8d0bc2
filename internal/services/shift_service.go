package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
)

// ShiftService plans the weekly shifts of each route.
type ShiftService struct {
	store *repository.Store
	loc   *time.Location
	now   func() time.Time
}

func NewShiftService(store *repository.Store, loc *time.Location) *ShiftService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftService{store: store, loc: loc, now: time.Now}
}

// ShiftInput creates or replaces a shift.
type ShiftInput struct {
	RouteID    uint              `json:"route_id" binding:"required"`
	Weekday    string            `json:"weekday" binding:"required"`
	StartTime  *models.ClockTime `json:"start_time" binding:"required"`
	EndTime    *models.ClockTime `json:"end_time" binding:"required"`
	WeekNumber int               `json:"week_number" binding:"required,min=1,max=52"`
	Status     string            `json:"status"`
}

// GenerateInput asks for a full week of shifts covering a daily window.
type GenerateInput struct {
	RouteID    uint              `json:"route_id" binding:"required"`
	StartTime  *models.ClockTime `json:"start_time" binding:"required"`
	EndTime    *models.ClockTime `json:"end_time" binding:"required"`
	WeekNumber int               `json:"week_number" binding:"required,min=1,max=52"`
}

type CopyWeekInput struct {
	RouteID    uint `json:"route_id" binding:"required"`
	SourceWeek int  `json:"source_week" binding:"required,min=1,max=52"`
	TargetWeek int  `json:"target_week" binding:"required,min=1,max=52"`
}

// ShiftView is a shift as the API returns it, with the route name and the
// driver assigned today, if any.
type ShiftView struct {
	models.Shift
	RouteName        string `json:"route_name"`
	HasAssignment    bool   `json:"has_assignment"`
	AssignedDriver   string `json:"assigned_driver,omitempty"`
	AssignedDriverID uint   `json:"assigned_driver_id,omitempty"`
}

func (s *ShiftService) today() time.Time {
	return models.DateOf(s.now().In(s.loc))
}

func (s *ShiftService) Create(ctx context.Context, input ShiftInput) (*ShiftView, error) {
	if _, err := s.requireRoute(ctx, input.RouteID); err != nil {
		return nil, err
	}
	shift := &models.Shift{RouteID: input.RouteID}
	if err := applyShiftInput(shift, input); err != nil {
		return nil, err
	}

	if err := s.store.Shifts.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("create shift: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"shift_id": shift.ID,
		"route_id": shift.RouteID,
		"week":     shift.WeekNumber,
		"weekday":  shift.Weekday,
	}).Info("shift created")
	return s.Get(ctx, shift.ID)
}

// List returns shifts filtered by route and week; a route filter must name
// an existing route.
func (s *ShiftService) List(ctx context.Context, filter repository.ShiftFilter) ([]ShiftView, error) {
	if filter.RouteID != nil {
		if _, err := s.requireRoute(ctx, *filter.RouteID); err != nil {
			return nil, err
		}
	}
	if filter.WeekNumber != nil {
		if err := validateWeek(*filter.WeekNumber); err != nil {
			return nil, err
		}
	}
	shifts, err := s.store.Shifts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return s.enrich(ctx, shifts)
}

func (s *ShiftService) ListByRoute(ctx context.Context, routeID uint) ([]ShiftView, error) {
	return s.List(ctx, repository.ShiftFilter{RouteID: &routeID})
}

func (s *ShiftService) ListByRouteAndWeek(ctx context.Context, routeID uint, week int) ([]ShiftView, error) {
	return s.List(ctx, repository.ShiftFilter{RouteID: &routeID, WeekNumber: &week})
}

func (s *ShiftService) Get(ctx context.Context, id uint) (*ShiftView, error) {
	shift, err := s.store.Shifts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "shift", id)
	}
	views, err := s.enrich(ctx, []models.Shift{*shift})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ShiftService) Update(ctx context.Context, id uint, input ShiftInput) (*ShiftView, error) {
	shift, err := s.store.Shifts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "shift", id)
	}
	if input.RouteID != shift.RouteID {
		if _, err := s.requireRoute(ctx, input.RouteID); err != nil {
			return nil, err
		}
		shift.RouteID = input.RouteID
		shift.Route = nil
	}
	if err := applyShiftInput(shift, input); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkAssignedDrivers(ctx, tx, shift); err != nil {
			return err
		}
		if err := tx.Shifts.Save(ctx, shift); err != nil {
			return fmt.Errorf("update shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// checkAssignedDrivers makes sure the new slot of shift still fits every
// driver actively assigned to it.
func checkAssignedDrivers(ctx context.Context, tx *repository.Store, shift *models.Shift) error {
	assigned, err := tx.Assignments.List(ctx, repository.AssignmentFilter{ShiftID: shift.ID, Status: models.AssignmentActive})
	if err != nil {
		return fmt.Errorf("load shift assignments: %w", err)
	}
	if len(assigned) == 0 {
		return nil
	}
	if shift.Status != models.ShiftActive {
		return conflict("cannot deactivate a shift with %d active assignment(s)", len(assigned))
	}
	for _, a := range assigned {
		if a.Driver == nil {
			continue
		}
		if err := checkDriverOverlap(ctx, tx, a.Driver, shift, a.StartDate, a.EndDate, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a shift and its assignment history. Shifts that still have
// active assignments are kept.
func (s *ShiftService) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Shifts.FindByID(ctx, id); err != nil {
		return lookupErr(err, "shift", id)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		active, err := tx.Assignments.CountActiveByShift(ctx, id)
		if err != nil {
			return fmt.Errorf("count shift assignments: %w", err)
		}
		if active > 0 {
			return conflict("cannot delete a shift with active assignments")
		}
		if err := tx.Assignments.DeleteHistoryByShift(ctx, id); err != nil {
			return fmt.Errorf("delete assignment history: %w", err)
		}
		if err := tx.Shifts.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithField("shift_id", id).Info("shift deleted")
	return nil
}

// CopyWeek clones every shift of the source week of a route into the
// target week. The target week must be empty for that route.
func (s *ShiftService) CopyWeek(ctx context.Context, input CopyWeekInput) ([]ShiftView, error) {
	if err := validateWeek(input.SourceWeek); err != nil {
		return nil, err
	}
	if err := validateWeek(input.TargetWeek); err != nil {
		return nil, err
	}
	if _, err := s.requireRoute(ctx, input.RouteID); err != nil {
		return nil, err
	}
	if input.SourceWeek == input.TargetWeek {
		return nil, invalid("source and target week must differ")
	}

	source, err := s.store.Shifts.List(ctx, repository.ShiftFilter{RouteID: &input.RouteID, WeekNumber: &input.SourceWeek})
	if err != nil {
		return nil, fmt.Errorf("load source week: %w", err)
	}
	if len(source) == 0 {
		return nil, invalid("no shifts in source week %d", input.SourceWeek)
	}

	copies := make([]models.Shift, 0, len(source))
	for _, src := range source {
		copies = append(copies, models.Shift{
			RouteID:       src.RouteID,
			Weekday:       src.Weekday,
			StartTime:     src.StartTime,
			EndTime:       src.EndTime,
			DurationHours: src.DurationHours,
			WeekNumber:    input.TargetWeek,
			Status:        src.Status,
		})
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Shifts.Count(ctx, repository.ShiftFilter{RouteID: &input.RouteID, WeekNumber: &input.TargetWeek})
		if err != nil {
			return fmt.Errorf("count target week: %w", err)
		}
		if existing > 0 {
			return conflict("week %d already has %d shift(s) for this route", input.TargetWeek, existing)
		}
		return tx.Shifts.CreateBatch(ctx, copies)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"route_id": input.RouteID,
		"from":     input.SourceWeek,
		"to":       input.TargetWeek,
		"shifts":   len(copies),
	}).Info("week copied")
	return s.createdViews(ctx, copies)
}

// Generate covers the daily window [start, end) on every day of the week
// with shifts of at most 8 hours. A trailing piece shorter than an hour is
// not scheduled.
func (s *ShiftService) Generate(ctx context.Context, input GenerateInput) ([]ShiftView, error) {
	if err := validateWeek(input.WeekNumber); err != nil {
		return nil, err
	}
	if _, err := s.requireRoute(ctx, input.RouteID); err != nil {
		return nil, err
	}
	start, end := *input.StartTime, *input.EndTime
	if !start.Valid() || !end.Valid() {
		return nil, invalid("times must be between 00:00 and 23:59")
	}
	if !start.Before(end) {
		return nil, invalid("invalid hours: start must be before end")
	}

	windows := SplitWindow(start, end, models.MaxShiftMinutes, models.MinShiftMinutes)
	if len(windows) == 0 {
		return nil, invalid("no shifts could be created for %s-%s", start, end)
	}

	shifts := make([]models.Shift, 0, len(windows)*len(models.Week))
	for _, day := range models.Week {
		for _, w := range windows {
			shifts = append(shifts, models.Shift{
				RouteID:       input.RouteID,
				Weekday:       day,
				StartTime:     w.Start,
				EndTime:       w.End,
				DurationHours: w.Minutes() / 60,
				WeekNumber:    input.WeekNumber,
				Status:        models.ShiftActive,
			})
		}
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Shifts.CreateBatch(ctx, shifts)
	})
	if err != nil {
		return nil, fmt.Errorf("save generated shifts: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"route_id": input.RouteID,
		"week":     input.WeekNumber,
		"shifts":   len(shifts),
	}).Info("shifts generated")
	return s.createdViews(ctx, shifts)
}

func (s *ShiftService) requireRoute(ctx context.Context, routeID uint) (*models.Route, error) {
	route, err := s.store.Routes.FindByID(ctx, routeID)
	if err != nil {
		return nil, lookupErr(err, "route", routeID)
	}
	return route, nil
}

// createdViews reloads freshly inserted shifts so they carry their route.
func (s *ShiftService) createdViews(ctx context.Context, created []models.Shift) ([]ShiftView, error) {
	routeIDs := make([]uint, 0, 1)
	seen := map[uint]bool{}
	for _, sh := range created {
		if !seen[sh.RouteID] {
			seen[sh.RouteID] = true
			routeIDs = append(routeIDs, sh.RouteID)
		}
	}
	routes, err := s.store.Routes.FindByIDs(ctx, routeIDs)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	for i := range created {
		if rt, ok := routes[created[i].RouteID]; ok {
			created[i].Route = &rt
		}
	}
	return s.enrich(ctx, created)
}

// enrich attaches route names and today's assignment to each shift and
// returns them in planning order.
func (s *ShiftService) enrich(ctx context.Context, shifts []models.Shift) ([]ShiftView, error) {
	views := make([]ShiftView, len(shifts))
	ids := make([]uint, len(shifts))
	for i, sh := range shifts {
		views[i] = ShiftView{Shift: sh}
		if sh.Route != nil {
			views[i].RouteName = sh.Route.Name
		}
		ids[i] = sh.ID
	}

	active, err := s.store.Assignments.ActiveForShiftsOn(ctx, ids, s.today())
	if err != nil {
		return nil, fmt.Errorf("load today's assignments: %w", err)
	}
	byShift := make(map[uint]models.ShiftAssignment, len(active))
	for _, a := range active {
		if _, ok := byShift[a.ShiftID]; !ok {
			byShift[a.ShiftID] = a
		}
	}
	for i := range views {
		a, ok := byShift[views[i].ID]
		if !ok {
			continue
		}
		views[i].HasAssignment = true
		views[i].AssignedDriverID = a.DriverID
		if a.Driver != nil {
			views[i].AssignedDriver = a.Driver.FullName
		}
	}

	sortShiftViews(views)
	return views, nil
}

func sortShiftViews(views []ShiftView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Shift, views[j].Shift
		if a.WeekNumber != b.WeekNumber {
			return a.WeekNumber < b.WeekNumber
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		if a.Weekday.Index() != b.Weekday.Index() {
			return a.Weekday.Index() < b.Weekday.Index()
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

// applyShiftInput validates the request and copies it onto shift.
func applyShiftInput(shift *models.Shift, input ShiftInput) error {
	day, err := models.ParseWeekday(input.Weekday)
	if err != nil {
		return invalid("%v", err)
	}
	if input.StartTime == nil || input.EndTime == nil {
		return invalid("start_time and end_time are required")
	}
	if err := validateWeek(input.WeekNumber); err != nil {
		return err
	}
	minutes, err := shiftMinutes(*input.StartTime, *input.EndTime)
	if err != nil {
		return err
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	switch status {
	case "":
		if shift.Status == "" {
			status = models.ShiftActive
		} else {
			status = shift.Status
		}
	case models.ShiftActive, models.ShiftInactive:
	default:
		return invalid("invalid shift status %q", input.Status)
	}

	shift.Weekday = day
	shift.StartTime = *input.StartTime
	shift.EndTime = *input.EndTime
	shift.DurationHours = minutes / 60
	shift.WeekNumber = input.WeekNumber
	shift.Status = status
	return nil
}

// shiftMinutes checks a manual shift's bounds and returns its length.
func shiftMinutes(start, end models.ClockTime) (int, error) {
	if !start.Valid() || !end.Valid() {
		return 0, invalid("times must be between 00:00 and 23:59")
	}
	if !start.Before(end) {
		return 0, invalid("start_time must be before end_time")
	}
	minutes := start.MinutesUntil(end)
	if minutes > models.MaxShiftMinutes {
		return 0, invalid("shift cannot exceed 8 hours")
	}
	return minutes, nil
}

func validateWeek(week int) error {
	if week < 1 || week > 52 {
		return invalid("week number must be between 1 and 52, got %d", week)
	}
	return nil
}
