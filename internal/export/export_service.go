package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/timeentry"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrNoEntries = apperror.New(
		apperror.CodeNotFound,
		"no time entries in the requested range",
		http.StatusNotFound,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range, expected YYYY-MM-DD with from <= to",
		http.StatusBadRequest,
	)
)

// EntrySource is the slice of the time entry repository the exporter
// reads from.
type EntrySource interface {
	FindByCompanyBetween(ctx context.Context, companyID string, from, to time.Time) ([]timeentry.TimeEntry, error)
}

//go:generate mockgen -source=export_service.go -destination=mock/export_service_mock.go -package=mock
type Service interface {
	// ExportTimesheet renders the entries for a date range as an xlsx
	// workbook. Returns the file content and a suggested filename.
	ExportTimesheet(ctx context.Context, companyID string, from, to time.Time) (*bytes.Buffer, string, error)
}

type service struct {
	entries EntrySource
	logger  *zap.Logger
}

func NewService(entries EntrySource, logger ...*zap.Logger) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("export.service")
	}
	return &service{entries: entries, logger: l}
}

func (s *service) ExportTimesheet(ctx context.Context, companyID string, from, to time.Time) (*bytes.Buffer, string, error) {
	if to.Before(from) {
		return nil, "", ErrInvalidRange
	}

	rows, err := s.entries.FindByCompanyBetween(ctx, companyID, from, to)
	if err != nil {
		s.logger.Error("timesheet query failed", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timesheet"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Employee ID", "Name", "Date", "Time In", "Time Out", "Hours", "Late", "Minutes Late"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, e := range rows {
		rowNum := i + 2

		employeeID := ""
		name := ""
		if e.User != nil {
			employeeID = e.User.EmployeeID
			name = e.User.FirstName + " " + e.User.Surname
		}

		timeOut := ""
		if e.TimeOut != nil {
			timeOut = e.TimeOut.Format("15:04:05")
		}

		late := "No"
		if e.IsLate {
			late = "Yes"
		}

		values := []any{
			employeeID,
			name,
			e.WorkDate.Format("2006-01-02"),
			e.TimeIn.Format("15:04:05"),
			timeOut,
			"",
			late,
			e.MinutesLate,
		}
		if e.HoursWorked != nil {
			values[5] = *e.HoursWorked
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("xlsx generation failed", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("timesheet_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return buf, filename, nil
}
