package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/export"
)

type capturingPDFRenderer struct {
	table    export.Table
	title    string
	subtitle string
}

func (r *capturingPDFRenderer) Render(table export.Table, title, subtitle string) ([]byte, error) {
	r.table = table
	r.title = title
	r.subtitle = subtitle
	return []byte("%PDF-stub"), nil
}

func newExportFixture(t *testing.T, cfg ExportConfig) (*fakeFlightStore, *fakeMaintenanceStore, *capturingPDFRenderer, *ExportService) {
	t.Helper()
	flightStore, timetable := newTimetableFixture()
	timetable.crew = &fakeCrewLister{crew: []models.CrewMember{
		{Email: "pilot@skyharbor.io", Name: "Ava Pilot", Phone: "555-0100", IsPilot: true},
		{Email: "cabin@skyharbor.io", Name: "Ben Cabin", Phone: "555-0101"},
	}}
	maintenanceStore, maintenance := newMaintenanceFixture()
	pdf := &capturingPDFRenderer{}
	svc := NewExportService(timetable, nil, maintenance, cfg, nil, nil, pdf, nil)
	return flightStore, maintenanceStore, pdf, svc
}

type capturingArchive struct {
	saved map[string][]byte
}

func (a *capturingArchive) Save(filename string, data []byte) (string, error) {
	if a.saved == nil {
		a.saved = make(map[string][]byte)
	}
	a.saved[filename] = data
	return filename, nil
}

func TestExportsDisabled(t *testing.T) {
	_, _, _, svc := newExportFixture(t, ExportConfig{Enabled: false})

	_, err := svc.FlightManifestCSV(context.Background(), "AA100", "2025-03-10")
	requireAppError(t, err, appErrors.ErrForbidden.Code)
	_, err = svc.TimetableCSV(context.Background(), nil)
	requireAppError(t, err, appErrors.ErrForbidden.Code)
	_, err = svc.MaintenanceLogPDF(context.Background(), "N100SH")
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}

func TestFlightManifestCSV(t *testing.T) {
	flightStore, _, _, svc := newExportFixture(t, ExportConfig{Enabled: true})
	flightStore.flights[flightKey("AA100", "2025-03-10")] = models.Flight{
		FlightNumber:         "AA100",
		Date:                 mustDate(t, "2025-03-10"),
		RouteID:              7,
		DepartureTime:        "10:00:00",
		ArrivalTime:          "12:00:00",
		AircraftRegistration: "N100SH",
	}

	result, err := svc.FlightManifestCSV(context.Background(), "AA100", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "manifest_AA100_2025-03-10.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Phone,Role,Scheduled Departure", lines[0])
	assert.Equal(t, "Ava Pilot,pilot@skyharbor.io,555-0100,Pilot,10:00:00", lines[1])
	assert.Equal(t, "Ben Cabin,cabin@skyharbor.io,555-0101,Cabin Crew,10:00:00", lines[2])
}

func TestFlightManifestUnknownFlight(t *testing.T) {
	_, _, _, svc := newExportFixture(t, ExportConfig{Enabled: true})
	_, err := svc.FlightManifestCSV(context.Background(), "AA404", "2025-03-10")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestTimetableCSVTruncatesAtMaxRows(t *testing.T) {
	flightStore, _, _, svc := newExportFixture(t, ExportConfig{Enabled: true, MaxRows: 1})
	flightStore.flights[flightKey("AA100", "2025-03-10")] = models.Flight{
		FlightNumber:  "AA100",
		Date:          mustDate(t, "2025-03-10"),
		DepartureTime: "10:00:00",
		ArrivalTime:   "12:00:00",
	}
	flightStore.flights[flightKey("AA200", "2025-03-10")] = models.Flight{
		FlightNumber:  "AA200",
		Date:          mustDate(t, "2025-03-10"),
		DepartureTime: "13:00:00",
		ArrivalTime:   "15:00:00",
	}

	result, err := svc.TimetableCSV(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "timetable.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Payload)), "\n")
	assert.Len(t, lines, 2)
}

func TestTimetableCSVDateFilterInFilename(t *testing.T) {
	_, _, _, svc := newExportFixture(t, ExportConfig{Enabled: true})
	date := "2025-03-10"

	result, err := svc.TimetableCSV(context.Background(), &date)
	require.NoError(t, err)
	assert.Equal(t, "timetable_2025-03-10.csv", result.Filename)
}

func TestTimetableCSVArchivesCopy(t *testing.T) {
	flightStore, _, _, svc := newExportFixture(t, ExportConfig{Enabled: true})
	archive := &capturingArchive{}
	svc.archive = archive
	flightStore.flights[flightKey("AA100", "2025-03-10")] = models.Flight{
		FlightNumber:  "AA100",
		Date:          mustDate(t, "2025-03-10"),
		DepartureTime: "10:00:00",
		ArrivalTime:   "12:00:00",
	}

	result, err := svc.TimetableCSV(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, archive.saved, "timetable.csv")
	assert.Equal(t, result.Payload, archive.saved["timetable.csv"])
}

func TestMaintenanceLogPDF(t *testing.T) {
	_, maintenanceStore, pdf, svc := newExportFixture(t, ExportConfig{Enabled: true})
	maintenanceStore.jobs[1] = models.MaintenanceJob{
		JobID:                1,
		AircraftRegistration: "N100SH",
		CheckinDate:          mustDate(t, "2025-02-01"),
		Status:               models.JobCompleted,
		Type:                 models.MaintenanceRepair,
	}

	result, err := svc.MaintenanceLogPDF(context.Background(), "N100SH")
	require.NoError(t, err)
	assert.Equal(t, "maintenance_log_N100SH.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)

	assert.Equal(t, "Maintenance Log N100SH", pdf.title)
	assert.Contains(t, pdf.subtitle, "SkyHarbor A320")
	require.Len(t, pdf.table.Rows, 1)
	assert.Equal(t, "1", pdf.table.Rows[0]["job_id"])
	assert.Equal(t, "repair", pdf.table.Rows[0]["type"])
}
