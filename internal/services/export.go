package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"fleet_shifts/internal/repository"
)

const exportSheet = "Shifts"

var exportHeader = []any{"Weekday", "Start", "End", "Hours", "Status", "Assigned driver"}

// ExportWeek renders a route's week plan as an XLSX workbook and returns
// the file contents together with a suggested file name.
func (s *ShiftService) ExportWeek(ctx context.Context, routeID uint, week int) (*bytes.Buffer, string, error) {
	route, err := s.requireRoute(ctx, routeID)
	if err != nil {
		return nil, "", err
	}
	views, err := s.List(ctx, repository.ShiftFilter{RouteID: &routeID, WeekNumber: &week})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, "", fmt.Errorf("name sheet: %w", err)
	}
	title := fmt.Sprintf("%s - week %d", route.Name, week)
	if err := f.SetCellValue(exportSheet, "A1", title); err != nil {
		return nil, "", err
	}
	if err := f.SetSheetRow(exportSheet, "A2", &exportHeader); err != nil {
		return nil, "", err
	}

	for i, v := range views {
		driver := v.AssignedDriver
		if driver == "" {
			driver = "-"
		}
		row := []any{string(v.Weekday), v.StartTime.String(), v.EndTime.String(), v.DurationHours, v.Status, driver}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "F", 16); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}
	return buf, fmt.Sprintf("route-%d-week-%02d.xlsx", routeID, week), nil
}
