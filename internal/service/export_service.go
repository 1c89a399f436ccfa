package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
	"github.com/skyharbor/fleetops-api/pkg/export"
)

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table, title, subtitle string) ([]byte, error)
}

// ExportArchive retains copies of rendered documents.
type ExportArchive interface {
	Save(filename string, data []byte) (string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled     bool
	MaxRows     int
	PDFPageSize string
}

// ExportResult is a rendered document ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders downloadable documents synchronously: the flight
// manifest and timetable as CSV, the aircraft maintenance log as PDF. A
// configured archive keeps a copy of every rendered document.
type ExportService struct {
	timetable   *TimetableService
	roster      *RosterService
	maintenance *MaintenanceService
	csv         csvRenderer
	pdf         pdfRenderer
	archive     ExportArchive
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService. The archive may be nil, in
// which case rendered documents are only streamed to the caller.
func NewExportService(timetable *TimetableService, roster *RosterService, maintenance *MaintenanceService, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, archive ExportArchive) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 10000
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(cfg.PDFPageSize)
	}
	return &ExportService{
		timetable:   timetable,
		roster:      roster,
		maintenance: maintenance,
		csv:         csv,
		pdf:         pdf,
		archive:     archive,
		logger:      logger,
		cfg:         cfg,
	}
}

// archiveCopy is best effort: an archive failure never fails the download.
func (s *ExportService) archiveCopy(filename string, payload []byte) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Save(filename, payload); err != nil {
		s.logger.Warn("failed to archive export", zap.String("filename", filename), zap.Error(err))
	}
}

func (s *ExportService) requireEnabled() error {
	if !s.cfg.Enabled {
		return appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	return nil
}

// FlightManifestCSV renders the crew manifest of one flight.
func (s *ExportService) FlightManifestCSV(ctx context.Context, number string, date string) (*ExportResult, error) {
	if err := s.requireEnabled(); err != nil {
		return nil, err
	}
	flight, crew, err := s.timetable.Get(ctx, number, date)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Columns: []export.Column{
			{Key: "name", Title: "Name"},
			{Key: "email", Title: "Email"},
			{Key: "phone", Title: "Phone"},
			{Key: "role", Title: "Role"},
			{Key: "departure", Title: "Scheduled Departure"},
		},
	}
	for _, member := range crew {
		role := "Cabin Crew"
		if member.IsPilot {
			role = "Pilot"
		}
		table.Rows = append(table.Rows, map[string]string{
			"name":      member.Name,
			"email":     member.Email,
			"phone":     member.Phone,
			"role":      role,
			"departure": flight.DepartureTime,
		})
	}

	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render manifest")
	}
	s.logger.Info("manifest exported", zap.String("flight_number", number), zap.String("date", date))
	filename := fmt.Sprintf("manifest_%s_%s.csv", number, date)
	s.archiveCopy(filename, payload)
	return &ExportResult{
		Filename:    filename,
		ContentType: "text/csv",
		Payload:     payload,
	}, nil
}

// TimetableCSV renders the timetable, optionally restricted to one day.
func (s *ExportService) TimetableCSV(ctx context.Context, date *string) (*ExportResult, error) {
	if err := s.requireEnabled(); err != nil {
		return nil, err
	}
	flights, err := s.timetable.List(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(flights) > s.cfg.MaxRows {
		flights = flights[:s.cfg.MaxRows]
	}

	table := export.Table{
		Columns: []export.Column{
			{Key: "flight_number", Title: "Flight"},
			{Key: "date", Title: "Date"},
			{Key: "departure", Title: "Departure"},
			{Key: "arrival", Title: "Arrival"},
			{Key: "aircraft", Title: "Aircraft"},
		},
	}
	for _, flight := range flights {
		table.Rows = append(table.Rows, map[string]string{
			"flight_number": flight.FlightNumber,
			"date":          flight.Date,
			"departure":     flight.DepartureTime,
			"arrival":       flight.ArrivalTime,
			"aircraft":      flight.AircraftRegistration,
		})
	}

	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	name := "timetable.csv"
	if date != nil {
		name = fmt.Sprintf("timetable_%s.csv", *date)
	}
	s.archiveCopy(name, payload)
	return &ExportResult{Filename: name, ContentType: "text/csv", Payload: payload}, nil
}

// MaintenanceLogPDF renders an aircraft's maintenance history as a PDF
// document.
func (s *ExportService) MaintenanceLogPDF(ctx context.Context, registration string) (*ExportResult, error) {
	if err := s.requireEnabled(); err != nil {
		return nil, err
	}
	detail, err := s.maintenance.AircraftDetail(ctx, registration)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Columns: []export.Column{
			{Key: "job_id", Title: "Job"},
			{Key: "checkin", Title: "Check-in"},
			{Key: "checkout", Title: "Check-out"},
			{Key: "type", Title: "Type"},
			{Key: "status", Title: "Status"},
		},
	}
	for _, job := range detail.MaintenanceHistory {
		table.Rows = append(table.Rows, map[string]string{
			"job_id":   fmt.Sprintf("%d", job.JobID),
			"checkin":  job.CheckinDate,
			"checkout": job.CheckoutDate,
			"type":     job.Type,
			"status":   job.Status,
		})
	}

	title := fmt.Sprintf("Maintenance Log %s", registration)
	subtitle := fmt.Sprintf("%s %s, generated %s", detail.Company, detail.Model, time.Now().UTC().Format(time.RFC3339))
	payload, err := s.pdf.Render(table, title, subtitle)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render maintenance log")
	}
	s.logger.Info("maintenance log exported", zap.String("aircraft", registration))
	filename := fmt.Sprintf("maintenance_log_%s.pdf", registration)
	s.archiveCopy(filename, payload)
	return &ExportResult{
		Filename:    filename,
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}
