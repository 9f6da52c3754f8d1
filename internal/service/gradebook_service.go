package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type colloquiumRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Colloquium, error)
	Create(ctx context.Context, payload models.ColloquiumPayload) (*models.Colloquium, error)
	UpdateGrade(ctx context.Context, id string, grade int) (*models.Colloquium, error)
	Delete(ctx context.Context, id string) error
}

type seminarRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Seminar, error)
	Attendance(ctx context.Context, seminarID string) ([]models.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, seminarID string, records []models.AttendanceRecord) error
	SubmitAssignmentGrid(ctx context.Context, grid models.AssignmentGrid) error
}

// cell addresses one colloquium grade slot of one student.
type cell struct {
	StudentID string
	Slot      int
}

// GradebookService backs a teacher's grading view for one course: the
// tri-state assignment grid (local until a single bulk submit) and the
// colloquium score grid (optimistic per-cell edits reconciled against
// server truth after every mutation, success or failure).
type GradebookService struct {
	courseID    string
	colloquiums colloquiumRepository
	seminars    seminarRepository
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.Mutex
	closed  bool
	marks   map[string]models.AssignmentMark
	records map[cell]models.Colloquium
	scores  map[cell]*int
	// Edit fencing: seq counts edits issued per cell, applied tracks the
	// newest edit whose reconciliation has been accepted. A reconciliation
	// carrying an older sequence than applied is discarded, and cells with
	// an edit still in flight keep their optimistic value.
	seq     map[cell]uint64
	applied map[cell]uint64
}

// NewGradebookService constructs a GradebookService for one course.
func NewGradebookService(courseID string, colloquiums colloquiumRepository, seminars seminarRepository, validate *validator.Validate, logger *zap.Logger) *GradebookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{
		courseID:    courseID,
		colloquiums: colloquiums,
		seminars:    seminars,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
		marks:       map[string]models.AssignmentMark{},
		records:     map[cell]models.Colloquium{},
		scores:      map[cell]*int{},
		seq:         map[cell]uint64{},
		applied:     map[cell]uint64{},
	}
}

// Load fetches the authoritative colloquium records and rebuilds the grid.
func (s *GradebookService) Load(ctx context.Context) error {
	records, err := s.colloquiums.ListByCourse(ctx, s.courseID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.rebuildLocked(records, 0, cell{})
	return nil
}

// CycleMark advances a student's assignment mark through
// ungraded -> pass -> fail -> ungraded. Purely local; persistence happens
// only through SubmitGrid.
func (s *GradebookService) CycleMark(studentID string) models.AssignmentMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark, ok := s.marks[studentID]
	if !ok {
		mark = models.MarkUngraded
	}
	next := mark.Next()
	s.marks[studentID] = next
	return next
}

// Mark returns a student's current assignment mark.
func (s *GradebookService) Mark(studentID string) models.AssignmentMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mark, ok := s.marks[studentID]; ok {
		return mark
	}
	return models.MarkUngraded
}

// SubmitGrid persists the whole assignment grid in one request. Cells are
// sent in stable student order.
func (s *GradebookService) SubmitGrid(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	grid := models.AssignmentGrid{CourseID: s.courseID}
	for studentID, mark := range s.marks {
		grid.Entries = append(grid.Entries, models.AssignmentGridEntry{StudentID: studentID, Mark: mark})
	}
	s.mu.Unlock()

	sort.Slice(grid.Entries, func(i, j int) bool {
		return grid.Entries[i].StudentID < grid.Entries[j].StudentID
	})
	if err := s.validator.Struct(grid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment grid")
	}
	return s.seminars.SubmitAssignmentGrid(ctx, grid)
}

// Seminars lists the course's seminar sessions.
func (s *GradebookService) Seminars(ctx context.Context) ([]models.Seminar, error) {
	return s.seminars.ListByCourse(ctx, s.courseID)
}

// Attendance fetches one session's attendance records.
func (s *GradebookService) Attendance(ctx context.Context, seminarID string) ([]models.AttendanceRecord, error) {
	return s.seminars.Attendance(ctx, seminarID)
}

// SaveAttendance persists a session's attendance set in one request.
func (s *GradebookService) SaveAttendance(ctx context.Context, seminarID string, records []models.AttendanceRecord) error {
	for _, record := range records {
		if record.Grade != nil && (*record.Grade < 0 || *record.Grade > 10) {
			return appErrors.Clone(appErrors.ErrValidation, "attendance grade must be between 0 and 10")
		}
	}
	return s.seminars.SaveAttendance(ctx, seminarID, records)
}

// Score returns the optimistic score of one cell, nil when absent.
func (s *GradebookService) Score(studentID string, slot int) *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	grade, ok := s.scores[cell{StudentID: studentID, Slot: slot}]
	if !ok || grade == nil {
		return nil
	}
	value := *grade
	return &value
}

// Record returns the known server record behind one cell.
func (s *GradebookService) Record(studentID string, slot int) (models.Colloquium, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[cell{StudentID: studentID, Slot: slot}]
	return record, ok
}

// SetGrade applies a colloquium edit optimistically, persists it, then
// reconciles from server truth regardless of the outcome so local state
// never diverges after the round-trip. Passing nil clears the cell.
func (s *GradebookService) SetGrade(ctx context.Context, studentID string, slot int, grade *int) error {
	if grade != nil && (*grade < 0 || *grade > 10) {
		return appErrors.Clone(appErrors.ErrValidation, "grade must be between 0 and 10")
	}

	key := cell{StudentID: studentID, Slot: slot}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.seq[key]++
	mySeq := s.seq[key]
	s.scores[key] = copyGrade(grade)
	prior, hasPrior := s.records[key]
	s.mu.Unlock()

	var mutErr error
	switch {
	case grade == nil && !hasPrior:
		// Clearing an empty cell needs no round-trip, but the edit must
		// still settle or rebuilds would treat the cell as in flight
		// forever and keep masking server truth.
		s.settle(key, mySeq)
		return nil
	case grade == nil:
		mutErr = s.colloquiums.Delete(ctx, prior.ID)
	case hasPrior:
		_, mutErr = s.colloquiums.UpdateGrade(ctx, prior.ID, *grade)
	default:
		payload := models.ColloquiumPayload{
			StudentID: studentID,
			CourseID:  s.courseID,
			Slot:      slot,
			Date:      s.now(),
			Grade:     *grade,
		}
		if err := s.validator.Struct(payload); err != nil {
			mutErr = appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid colloquium payload")
		} else {
			_, mutErr = s.colloquiums.Create(ctx, payload)
		}
	}
	if mutErr != nil {
		s.logger.Warn("colloquium mutation failed, reconciling anyway",
			zap.String("studentId", studentID),
			zap.Int("slot", slot),
			zap.Error(mutErr))
	}

	records, fetchErr := s.colloquiums.ListByCourse(ctx, s.courseID)
	if fetchErr != nil {
		// No server truth to rebuild from; settle the cell so the next
		// Load can replace the optimistic value.
		s.settle(key, mySeq)
		if mutErr != nil {
			return mutErr
		}
		return fetchErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return mutErr
	}
	if mySeq < s.applied[key] {
		// An out-of-order reconciliation; a newer edit already settled
		// this cell.
		return mutErr
	}
	s.rebuildLocked(records, mySeq, key)
	return mutErr
}

// rebuildLocked replaces grid state from the authoritative record set.
// Cells with an edit still in flight keep their optimistic score.
func (s *GradebookService) rebuildLocked(records []models.Colloquium, mySeq uint64, key cell) {
	if mySeq > 0 {
		s.applied[key] = mySeq
	}

	s.records = make(map[cell]models.Colloquium, len(records))
	fresh := make(map[cell]*int, len(records))
	for _, record := range records {
		c := cell{StudentID: record.StudentID, Slot: record.Slot}
		s.records[c] = record
		grade := record.Grade
		fresh[c] = &grade
	}

	for c := range s.seq {
		if s.seq[c] > s.applied[c] {
			fresh[c] = s.scores[c]
		}
	}
	s.scores = fresh
}

// settle marks an edit as applied without touching grid state. Used when
// the edit produced no authoritative record set to rebuild from.
func (s *GradebookService) settle(key cell, mySeq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mySeq > s.applied[key] {
		s.applied[key] = mySeq
	}
}

func copyGrade(grade *int) *int {
	if grade == nil {
		return nil
	}
	value := *grade
	return &value
}

// Close marks the owning view as disposed.
func (s *GradebookService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
