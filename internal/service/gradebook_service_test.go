package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type mockColloquiumRepo struct {
	mu        sync.Mutex
	records   []models.Colloquium
	nextID    int
	listCalls int
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	// When set, the first ListByCourse call snapshots the records, signals
	// listStarted, blocks until listRelease closes and returns the stale
	// snapshot.
	blockFirstList bool
	listStarted    chan struct{}
	listRelease    chan struct{}
}

func (m *mockColloquiumRepo) snapshot() []models.Colloquium {
	out := make([]models.Colloquium, len(m.records))
	copy(out, m.records)
	return out
}

func (m *mockColloquiumRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Colloquium, error) {
	m.mu.Lock()
	m.listCalls++
	listErr := m.listErr
	snap := m.snapshot()
	block := m.blockFirstList
	m.blockFirstList = false
	m.mu.Unlock()
	if listErr != nil {
		return nil, listErr
	}

	if block {
		close(m.listStarted)
		<-m.listRelease
	}
	return snap, nil
}

func (m *mockColloquiumRepo) Create(ctx context.Context, payload models.ColloquiumPayload) (*models.Colloquium, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record := models.Colloquium{
		ID:        "col-" + strconv.Itoa(m.nextID),
		StudentID: payload.StudentID,
		CourseID:  payload.CourseID,
		Slot:      payload.Slot,
		Date:      payload.Date,
		Grade:     payload.Grade,
	}
	m.records = append(m.records, record)
	return &record, nil
}

func (m *mockColloquiumRepo) UpdateGrade(ctx context.Context, id string, grade int) (*models.Colloquium, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Grade = grade
			record := m.records[i]
			return &record, nil
		}
	}
	return nil, errors.New("colloquium not found")
}

func (m *mockColloquiumRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	for _, record := range m.records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	m.records = kept
	return nil
}

type mockSeminarRepo struct {
	seminars    []models.Seminar
	attendance  []models.AttendanceRecord
	savedBySess map[string][]models.AttendanceRecord
	grids       []models.AssignmentGrid
	submitErr   error
}

func (m *mockSeminarRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Seminar, error) {
	return m.seminars, nil
}

func (m *mockSeminarRepo) Attendance(ctx context.Context, seminarID string) ([]models.AttendanceRecord, error) {
	return m.attendance, nil
}

func (m *mockSeminarRepo) SaveAttendance(ctx context.Context, seminarID string, records []models.AttendanceRecord) error {
	if m.savedBySess == nil {
		m.savedBySess = map[string][]models.AttendanceRecord{}
	}
	m.savedBySess[seminarID] = records
	return nil
}

func (m *mockSeminarRepo) SubmitAssignmentGrid(ctx context.Context, grid models.AssignmentGrid) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.grids = append(m.grids, grid)
	return nil
}

func newGradebook(t *testing.T, colloquiums *mockColloquiumRepo, seminars *mockSeminarRepo) *GradebookService {
	t.Helper()
	svc := NewGradebookService("course-1", colloquiums, seminars, nil, zap.NewNop())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestCycleMarkTriState(t *testing.T) {
	svc := newGradebook(t, &mockColloquiumRepo{}, &mockSeminarRepo{})

	assert.Equal(t, models.MarkUngraded, svc.Mark("s1"))
	assert.Equal(t, models.MarkPass, svc.CycleMark("s1"))
	assert.Equal(t, models.MarkFail, svc.CycleMark("s1"))
	assert.Equal(t, models.MarkUngraded, svc.CycleMark("s1"))
	// Other students are untouched.
	assert.Equal(t, models.MarkUngraded, svc.Mark("s2"))
}

func TestSubmitGridSendsOneSortedRequest(t *testing.T) {
	seminars := &mockSeminarRepo{}
	svc := newGradebook(t, &mockColloquiumRepo{}, seminars)

	svc.CycleMark("s2")
	svc.CycleMark("s1")
	svc.CycleMark("s1")

	require.NoError(t, svc.SubmitGrid(context.Background()))
	require.Len(t, seminars.grids, 1)
	grid := seminars.grids[0]
	assert.Equal(t, "course-1", grid.CourseID)
	require.Len(t, grid.Entries, 2)
	assert.Equal(t, "s1", grid.Entries[0].StudentID)
	assert.Equal(t, models.MarkFail, grid.Entries[0].Mark)
	assert.Equal(t, "s2", grid.Entries[1].StudentID)
	assert.Equal(t, models.MarkPass, grid.Entries[1].Mark)
}

func TestSetGradeCreateThenClearRoundTrip(t *testing.T) {
	repo := &mockColloquiumRepo{}
	svc := newGradebook(t, repo, &mockSeminarRepo{})

	grade := 8
	require.NoError(t, svc.SetGrade(context.Background(), "s1", 0, &grade))

	score := svc.Score("s1", 0)
	require.NotNil(t, score)
	assert.Equal(t, 8, *score)
	record, ok := svc.Record("s1", 0)
	require.True(t, ok)
	assert.NotEmpty(t, record.ID)

	require.NoError(t, svc.SetGrade(context.Background(), "s1", 0, nil))
	assert.Nil(t, svc.Score("s1", 0))
	_, ok = svc.Record("s1", 0)
	assert.False(t, ok)
	assert.Empty(t, repo.records)
}

func TestSetGradeClearingEmptyCellSkipsNetwork(t *testing.T) {
	repo := &mockColloquiumRepo{}
	svc := newGradebook(t, repo, &mockSeminarRepo{})
	baseline := repo.listCalls

	require.NoError(t, svc.SetGrade(context.Background(), "s1", 0, nil))
	assert.Equal(t, baseline, repo.listCalls)
}

func TestSetGradeNoOpClearDoesNotMaskLaterLoads(t *testing.T) {
	repo := &mockColloquiumRepo{}
	svc := newGradebook(t, repo, &mockSeminarRepo{})

	// Clearing an already empty cell is purely local.
	require.NoError(t, svc.SetGrade(context.Background(), "s1", 0, nil))

	// The record later appears on the server (another client graded it).
	repo.mu.Lock()
	repo.records = []models.Colloquium{{
		ID: "c1", StudentID: "s1", CourseID: "course-1", Slot: 0, Grade: 7,
	}}
	repo.mu.Unlock()

	require.NoError(t, svc.Load(context.Background()))
	score := svc.Score("s1", 0)
	require.NotNil(t, score)
	assert.Equal(t, 7, *score)
	record, ok := svc.Record("s1", 0)
	require.True(t, ok)
	assert.Equal(t, 7, record.Grade)
}

func TestSetGradeReconcileFetchFailureDoesNotPinCell(t *testing.T) {
	repo := &mockColloquiumRepo{
		records: []models.Colloquium{{
			ID: "c1", StudentID: "s1", CourseID: "course-1", Slot: 0, Grade: 4,
		}},
	}
	svc := newGradebook(t, repo, &mockSeminarRepo{})

	// Both the mutation and the reconcile fetch fail: the optimistic 9
	// never reached the server, whose truth stays 4.
	repo.mu.Lock()
	repo.updateErr = errors.New("boom")
	repo.listErr = errors.New("timeout")
	repo.mu.Unlock()

	grade := 9
	err := svc.SetGrade(context.Background(), "s1", 0, &grade)
	require.Error(t, err)

	// The backend comes back; the next Load must show server truth, not
	// the optimistic value of the failed round-trip.
	repo.mu.Lock()
	repo.updateErr = nil
	repo.listErr = nil
	repo.mu.Unlock()

	require.NoError(t, svc.Load(context.Background()))
	score := svc.Score("s1", 0)
	require.NotNil(t, score)
	assert.Equal(t, 4, *score)
	record, ok := svc.Record("s1", 0)
	require.True(t, ok)
	assert.Equal(t, 4, record.Grade)
}

func TestSetGradeRejectsOutOfRange(t *testing.T) {
	repo := &mockColloquiumRepo{}
	svc := newGradebook(t, repo, &mockSeminarRepo{})

	grade := 11
	err := svc.SetGrade(context.Background(), "s1", 0, &grade)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.records)
}

func TestSetGradeFailureStillReconciles(t *testing.T) {
	repo := &mockColloquiumRepo{
		records: []models.Colloquium{{
			ID: "c1", StudentID: "s1", CourseID: "course-1", Slot: 0, Grade: 4,
		}},
	}
	svc := newGradebook(t, repo, &mockSeminarRepo{})
	repo.updateErr = errors.New("boom")

	grade := 9
	err := svc.SetGrade(context.Background(), "s1", 0, &grade)
	require.Error(t, err)

	// The optimistic 9 was rolled back to the server's 4.
	score := svc.Score("s1", 0)
	require.NotNil(t, score)
	assert.Equal(t, 4, *score)
}

func TestSetGradeStaleReconciliationDiscarded(t *testing.T) {
	repo := &mockColloquiumRepo{
		records: []models.Colloquium{{
			ID: "c1", StudentID: "s1", CourseID: "course-1", Slot: 0, Grade: 4,
		}},
	}
	svc := newGradebook(t, repo, &mockSeminarRepo{})

	// The first edit's reconciliation fetch stalls holding a pre-update
	// snapshot; a second edit lands and settles before it returns.
	repo.mu.Lock()
	repo.blockFirstList = true
	repo.listStarted = make(chan struct{})
	repo.listRelease = make(chan struct{})
	repo.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		first := 5
		done <- svc.SetGrade(context.Background(), "s1", 0, &first)
	}()
	<-repo.listStarted

	second := 7
	require.NoError(t, svc.SetGrade(context.Background(), "s1", 0, &second))

	close(repo.listRelease)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first edit did not finish")
	}

	// The stale snapshot from the first edit must not overwrite the
	// settled second edit.
	score := svc.Score("s1", 0)
	require.NotNil(t, score)
	assert.Equal(t, 7, *score)
	record, ok := svc.Record("s1", 0)
	require.True(t, ok)
	assert.Equal(t, 7, record.Grade)
}

func TestSaveAttendanceValidatesGrades(t *testing.T) {
	seminars := &mockSeminarRepo{}
	svc := newGradebook(t, &mockColloquiumRepo{}, seminars)

	bad := 12
	err := svc.SaveAttendance(context.Background(), "sem-1", []models.AttendanceRecord{
		{StudentID: "s1", Present: true, Grade: &bad},
	})
	require.Error(t, err)
	assert.Empty(t, seminars.savedBySess)

	good := 10
	require.NoError(t, svc.SaveAttendance(context.Background(), "sem-1", []models.AttendanceRecord{
		{StudentID: "s1", Present: true, Grade: &good},
		{StudentID: "s2", Present: false},
	}))
	assert.Len(t, seminars.savedBySess["sem-1"], 2)
}

func TestGradebookClosedViewRejectsEdits(t *testing.T) {
	svc := newGradebook(t, &mockColloquiumRepo{}, &mockSeminarRepo{})
	svc.Close()

	grade := 6
	err := svc.SetGrade(context.Background(), "s1", 0, &grade)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrViewClosed.Code, appErr.Code)

	err = svc.Load(context.Background())
	require.Error(t, err)
}
