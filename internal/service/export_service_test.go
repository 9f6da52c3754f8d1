package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/repository"
	"github.com/noah-isme/campus-portal-client/internal/transport"
)

type mockSpreadsheetSource struct {
	blob      *transport.Blob
	result    *repository.ImportResult
	lastCall  string
	lastFile  string
	uploadErr error
}

func (m *mockSpreadsheetSource) StudentTemplate(ctx context.Context) (*transport.Blob, error) {
	m.lastCall = "studentTemplate"
	return m.blob, nil
}

func (m *mockSpreadsheetSource) ImportStudents(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error) {
	m.lastCall = "importStudents"
	m.lastFile = filename
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.result, nil
}

func (m *mockSpreadsheetSource) ExportStudents(ctx context.Context) (*transport.Blob, error) {
	m.lastCall = "exportStudents"
	return m.blob, nil
}

func (m *mockSpreadsheetSource) TeacherTemplate(ctx context.Context) (*transport.Blob, error) {
	m.lastCall = "teacherTemplate"
	return m.blob, nil
}

func (m *mockSpreadsheetSource) ImportTeachers(ctx context.Context, filename string, file io.Reader) (*repository.ImportResult, error) {
	m.lastCall = "importTeachers"
	m.lastFile = filename
	return m.result, nil
}

func (m *mockSpreadsheetSource) ExportTeachers(ctx context.Context) (*transport.Blob, error) {
	m.lastCall = "exportTeachers"
	return m.blob, nil
}

type mockDocumentStore struct {
	saved      map[string][]byte
	cleanedTTL time.Duration
	cleaned    []string
}

func (m *mockDocumentStore) Save(filename string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[filename] = data
	return "/downloads/" + filename, nil
}

func (m *mockDocumentStore) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	m.cleanedTTL = ttl
	return m.cleaned, nil
}

func TestScheduleTableOrdersByDayThenStart(t *testing.T) {
	table := ScheduleTable("My Week", []models.ScheduleEntry{
		{DayOfWeek: "Tuesday", StartTime: "09:00", CourseName: "Physics"},
		{DayOfWeek: "Monday", StartTime: "11:00", CourseName: "Algebra II"},
		{DayOfWeek: "Monday", StartTime: "09:00", CourseName: "Algebra I"},
	})

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Algebra I", table.Rows[0]["course"])
	assert.Equal(t, "Algebra II", table.Rows[1]["course"])
	assert.Equal(t, "Physics", table.Rows[2]["course"])
	assert.Equal(t, "My Week", table.Title)
}

func TestRosterTableFlattensStudents(t *testing.T) {
	table := RosterTable("Group G-1", []models.Student{
		{Name: "Ada", Email: "ada@uni.edu", GroupCode: "G-1", Year: 2},
	})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Ada", table.Rows[0]["name"])
	assert.Equal(t, "2", table.Rows[0]["year"])
}

func TestSaveTableWritesTimestampedCSV(t *testing.T) {
	store := &mockDocumentStore{}
	svc := NewExportService(&mockSpreadsheetSource{}, store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC) }

	table := ScheduleTable("Week", []models.ScheduleEntry{
		{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", CourseName: "Algebra"},
	})
	path, err := svc.SaveTable(table, "schedule", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "/downloads/schedule-20250314-103000.csv", path)

	data := store.saved["schedule-20250314-103000.csv"]
	require.NotEmpty(t, data)
	assert.Contains(t, string(data), "Algebra")
}

func TestSaveTablePDF(t *testing.T) {
	store := &mockDocumentStore{}
	svc := NewExportService(&mockSpreadsheetSource{}, store, zap.NewNop())

	table := RosterTable("Roster", []models.Student{{Name: "Ada"}})
	path, err := svc.SaveTable(table, "roster", FormatPDF)
	require.NoError(t, err)
	require.NotEmpty(t, path)
	for name, data := range store.saved {
		assert.True(t, strings.HasSuffix(name, ".pdf"))
		assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	}
}

func TestSaveTableRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockSpreadsheetSource{}, &mockDocumentStore{}, zap.NewNop())
	_, err := svc.SaveTable(ScheduleTable("", nil), "x", ExportFormat("xml"))
	require.Error(t, err)
}

func TestSaveStudentWorkbookUsesServerFilename(t *testing.T) {
	source := &mockSpreadsheetSource{blob: &transport.Blob{
		Kind:        transport.BlobSpreadsheet,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    "students-2025.xlsx",
		Data:        []byte{0x50, 0x4b},
	}}
	store := &mockDocumentStore{}
	svc := NewExportService(source, store, zap.NewNop())

	path, err := svc.SaveStudentWorkbook(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/downloads/students-2025.xlsx", path)
	assert.Equal(t, "exportStudents", source.lastCall)
}

func TestSaveTeacherTemplateFallsBackToDefaultName(t *testing.T) {
	source := &mockSpreadsheetSource{blob: &transport.Blob{
		Kind: transport.BlobSpreadsheet,
		Data: []byte{0x50, 0x4b},
	}}
	store := &mockDocumentStore{}
	svc := NewExportService(source, store, zap.NewNop())

	path, err := svc.SaveTeacherTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/downloads/teacher-template.xlsx", path)
}

func TestCleanupDelegatesToStore(t *testing.T) {
	store := &mockDocumentStore{cleaned: []string{"old.csv"}}
	svc := NewExportService(&mockSpreadsheetSource{}, store, zap.NewNop())

	deleted, err := svc.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)
	assert.Equal(t, 24*time.Hour, store.cleanedTTL)
}

func TestImportStudentsPassesThrough(t *testing.T) {
	source := &mockSpreadsheetSource{result: &repository.ImportResult{Imported: 12, Skipped: 1}}
	svc := NewExportService(source, &mockDocumentStore{}, zap.NewNop())

	result, err := svc.ImportStudents(context.Background(), "roster.xlsx", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, 12, result.Imported)
	assert.Equal(t, "roster.xlsx", source.lastFile)
}
