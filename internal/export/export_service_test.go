package export

import (
	"context"
	"testing"
	"time"

	"go-timeclock/internal/timeentry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

type fakeEntrySource struct {
	rows []timeentry.TimeEntry
	err  error
}

func (f *fakeEntrySource) FindByCompanyBetween(ctx context.Context, companyID string, from, to time.Time) ([]timeentry.TimeEntry, error) {
	return f.rows, f.err
}

func TestService_ExportTimesheet(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	out := time.Date(2025, 6, 2, 17, 30, 0, 0, loc)
	hours := 8.5
	rows := []timeentry.TimeEntry{{
		ID:          uuid.New(),
		WorkDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
		TimeIn:      time.Date(2025, 6, 2, 9, 0, 0, 0, loc),
		TimeOut:     &out,
		HoursWorked: &hours,
		IsLate:      true,
		MinutesLate: 60,
		User: &timeentry.UserRef{
			EmployeeID: "000042",
			FirstName:  "Maria",
			Surname:    "Santos",
		},
	}}

	svc := NewService(&fakeEntrySource{rows: rows})

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, loc)
	buf, filename, err := svc.ExportTimesheet(context.Background(), uuid.NewString(), from, to)
	assert.NoError(t, err)
	assert.Equal(t, "timesheet_20250601_20250630.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Timesheet", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Employee ID", header)

	employeeID, err := f.GetCellValue("Timesheet", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "000042", employeeID)

	late, err := f.GetCellValue("Timesheet", "G2")
	assert.NoError(t, err)
	assert.Equal(t, "Yes", late)
}

func TestService_ExportTimesheet_EmptyRange(t *testing.T) {
	svc := NewService(&fakeEntrySource{})

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.ExportTimesheet(context.Background(), uuid.NewString(), from, from.AddDate(0, 0, 6))
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestService_ExportTimesheet_InvertedRange(t *testing.T) {
	svc := NewService(&fakeEntrySource{})

	from := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.ExportTimesheet(context.Background(), uuid.NewString(), from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}
