package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/repository"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
	"github.com/noah-isme/campus-portal-client/pkg/export"
)

type spreadsheetSource interface {
	StudentTemplate(ctx context.Context) (*transport.Blob, error)
	ImportStudents(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error)
	ExportStudents(ctx context.Context) (*transport.Blob, error)
	TeacherTemplate(ctx context.Context) (*transport.Blob, error)
	ImportTeachers(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error)
	ExportTeachers(ctx context.Context) (*transport.Blob, error)
}

type documentStore interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportFormat selects the local rendering of a table export.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportService renders loaded data into CSV or PDF files and saves
// server-produced Excel workbooks, all under a local download directory.
type ExportService struct {
	sheets  spreadsheetSource
	store   documentStore
	csv     *export.CSVRenderer
	pdf     *export.PDFRenderer
	widePDF *export.PDFRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(sheets spreadsheetSource, store documentStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sheets:  sheets,
		store:   store,
		csv:     export.NewCSVRenderer(),
		pdf:     export.NewPDFRenderer(),
		widePDF: export.NewLandscapePDFRenderer(),
		logger:  logger,
		now:     time.Now,
	}
}

var dayOrder = map[string]int{
	"Monday": 1, "Tuesday": 2, "Wednesday": 3, "Thursday": 4,
	"Friday": 5, "Saturday": 6, "Sunday": 7,
}

// ScheduleTable flattens timetable entries into an export table, ordered
// by weekday then start time.
func ScheduleTable(title string, entries []models.ScheduleEntry) export.Table {
	sorted := make([]models.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := dayOrder[sorted[i].DayOfWeek], dayOrder[sorted[j].DayOfWeek]
		if di != dj {
			return di < dj
		}
		mi, _ := models.MinuteOfDay(sorted[i].StartTime)
		mj, _ := models.MinuteOfDay(sorted[j].StartTime)
		return mi < mj
	})

	table := export.Table{
		Title: title,
		Columns: []export.Column{
			{Key: "day", Label: "Day", Weight: 1},
			{Key: "start", Label: "Start", Weight: 0.7},
			{Key: "end", Label: "End", Weight: 0.7},
			{Key: "course", Label: "Course", Weight: 2},
			{Key: "teacher", Label: "Teacher", Weight: 1.5},
			{Key: "room", Label: "Room", Weight: 1},
			{Key: "group", Label: "Group", Weight: 1},
			{Key: "type", Label: "Type", Weight: 1},
		},
	}
	for _, e := range sorted {
		table.Rows = append(table.Rows, map[string]string{
			"day":     e.DayOfWeek,
			"start":   e.StartTime,
			"end":     e.EndTime,
			"course":  e.CourseName,
			"teacher": e.TeacherName,
			"room":    e.RoomName,
			"group":   e.GroupCode,
			"type":    e.Type,
		})
	}
	return table
}

// RosterTable flattens a student listing into an export table.
func RosterTable(title string, students []models.Student) export.Table {
	table := export.Table{
		Title: title,
		Columns: []export.Column{
			{Key: "name", Label: "Full Name", Weight: 2},
			{Key: "email", Label: "Email", Weight: 2},
			{Key: "group", Label: "Group", Weight: 1},
			{Key: "year", Label: "Year", Weight: 0.6},
		},
	}
	for _, st := range students {
		table.Rows = append(table.Rows, map[string]string{
			"name":  st.Name,
			"email": st.Email,
			"group": st.GroupCode,
			"year":  strconv.Itoa(st.Year),
		})
	}
	return table
}

// SaveTable renders a table in the requested format and writes it to the
// download directory. The returned path is absolute.
func (s *ExportService) SaveTable(table export.Table, name string, format ExportFormat) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = s.csv.Render(table)
	case FormatPDF:
		renderer := s.pdf
		if len(table.Columns) > 5 {
			renderer = s.widePDF
		}
		data, err = renderer.Render(table)
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	filename := fmt.Sprintf("%s-%s.%s", name, s.now().Format("20060102-150405"), format)
	path, err := s.store.Save(filename, data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "save export")
	}
	s.logger.Info("export saved", zap.String("path", path), zap.String("format", string(format)))
	return path, nil
}

// SaveStudentWorkbook downloads the server-rendered student roster
// spreadsheet and stores it locally.
func (s *ExportService) SaveStudentWorkbook(ctx context.Context) (string, error) {
	return s.saveBlob(ctx, s.sheets.ExportStudents, "students.xlsx")
}

// SaveTeacherWorkbook downloads the server-rendered staff spreadsheet
// and stores it locally.
func (s *ExportService) SaveTeacherWorkbook(ctx context.Context) (string, error) {
	return s.saveBlob(ctx, s.sheets.ExportTeachers, "teachers.xlsx")
}

// ImportStudents uploads a filled student spreadsheet and reports the
// outcome per row.
func (s *ExportService) ImportStudents(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error) {
	result, err := s.sheets.ImportStudents(ctx, filename, file)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// ImportTeachers uploads a filled teacher spreadsheet.
func (s *ExportService) ImportTeachers(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error) {
	result, err := s.sheets.ImportTeachers(ctx, filename, file)
	if err != nil {
		return nil, err
	}
	s.logger.Info("teacher import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// SaveStudentTemplate stores the blank student import template.
func (s *ExportService) SaveStudentTemplate(ctx context.Context) (string, error) {
	return s.saveBlob(ctx, s.sheets.StudentTemplate, "student-template.xlsx")
}

// SaveTeacherTemplate stores the blank teacher import template.
func (s *ExportService) SaveTeacherTemplate(ctx context.Context) (string, error) {
	return s.saveBlob(ctx, s.sheets.TeacherTemplate, "teacher-template.xlsx")
}

// Cleanup removes saved documents older than the TTL and returns their
// names.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "cleanup downloads")
	}
	if len(deleted) > 0 {
		s.logger.Info("stale downloads removed", zap.Int("count", len(deleted)))
	}
	return deleted, nil
}

func (s *ExportService) saveBlob(ctx context.Context, fetch func(context.Context) (*transport.Blob, error), fallback string) (string, error) {
	blob, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	filename := blob.Filename
	if filename == "" {
		filename = fallback
	}
	path, err := s.store.Save(filename, blob.Data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "save download")
	}
	s.logger.Info("download saved", zap.String("path", path), zap.String("contentType", blob.ContentType))
	return path, nil
}
