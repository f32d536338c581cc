package attendance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mengistu3137/jimma-zone-erp/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeaders = []any{"Date", "Employee", "Office", "Day Status", "Shift", "Shift Status", "Time", "Distance (m)"}

// ExportOfficeHierarchy implements attendance.AttendanceService. It writes
// an XLSX workbook with one row per recorded shift.
func (s *AttendanceServiceImpl) ExportOfficeHierarchy(ctx context.Context, filter attendance.AttendanceFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	if err := s.scopeToManager(ctx, &filter); err != nil {
		return err
	}

	var records []attendance.Attendance
	filter.Page, filter.Limit = 1, summaryPageSize
	for {
		batch, total, err := s.AttendanceRepository.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		records = append(records, batch...)
		if len(batch) == 0 || int64(len(records)) >= total {
			break
		}
		filter.Page++
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for _, a := range records {
		resp := attendance.ToResponse(a)
		if len(a.Details) == 0 {
			if err := writeExportRow(f, row, resp, nil); err != nil {
				return err
			}
			row++
			continue
		}
		for i := range a.Details {
			if err := writeExportRow(f, row, resp, &a.Details[i]); err != nil {
				return err
			}
			row++
		}
	}

	for col, width := range map[string]float64{"A": 12, "B": 28, "C": 22, "D": 12, "E": 18, "F": 12, "G": 20, "H": 14} {
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeExportRow(f *excelize.File, row int, a attendance.AttendanceResponse, d *attendance.Detail) error {
	values := []any{a.Date, a.EmployeeName, a.OfficeName, a.Status, "", "", "", ""}
	if d != nil {
		values[4] = string(d.Type.AttendanceType())
		values[5] = string(d.Status)
		values[6] = d.Timestamp.UTC().Format(time.DateTime)
		if d.DistanceFromOffice != nil {
			values[7] = fmt.Sprintf("%.2f", *d.DistanceFromOffice)
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
