package service

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/repository"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, scope repository.ScheduleScope) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, payload models.SchedulePayload) (*models.ScheduleEntry, error)
	Update(ctx context.Context, id string, payload models.SchedulePayload) (*models.ScheduleEntry, error)
	Delete(ctx context.Context, id string) error
}

type courseFinder interface {
	Find(ctx context.Context, id string) (*models.Course, error)
}

// ScheduleService holds one view's timetable and guards every mutation with
// local conflict detection. The check is advisory: it runs against the
// loaded entry set, not a server-side transaction.
type ScheduleService struct {
	repo      scheduleRepository
	courses   courseFinder
	validator *validator.Validate
	logger    *zap.Logger

	mu      sync.Mutex
	entries []models.ScheduleEntry
	closed  bool
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, courses courseFinder, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Load fetches the scope's entries and replaces the view cache.
func (s *ScheduleService) Load(ctx context.Context, scope repository.ScheduleScope) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.entries = entries
	return s.snapshotLocked(), nil
}

// Entries returns a copy of the loaded entry set.
func (s *ScheduleService) Entries() []models.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ScheduleService) snapshotLocked() []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// DetectConflicts reports every conflict between the candidate and the
// loaded entries, excluding the entry being edited by identity. An
// overlapping entry contributes one conflict per matching dimension.
func (s *ScheduleService) DetectConflicts(candidate models.ScheduleEntry, excludeID string) []models.ScheduleConflict {
	s.mu.Lock()
	entries := s.snapshotLocked()
	s.mu.Unlock()

	conflicts := []models.ScheduleConflict{}
	for _, other := range entries {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if !candidate.Overlaps(other) {
			continue
		}
		if candidate.RoomID != "" && candidate.RoomID == other.RoomID {
			conflicts = append(conflicts, models.ScheduleConflict{Reason: models.ConflictRoom, Entry: other})
		}
		if candidate.TeacherName != "" && candidate.TeacherName == other.TeacherName {
			conflicts = append(conflicts, models.ScheduleConflict{Reason: models.ConflictTeacher, Entry: other})
		}
		if candidate.GroupCode != "" && candidate.GroupCode == other.GroupCode {
			conflicts = append(conflicts, models.ScheduleConflict{Reason: models.ConflictGroup, Entry: other})
		}
	}
	return conflicts
}

// Create validates, rejects conflicting candidates locally and persists.
func (s *ScheduleService) Create(ctx context.Context, payload models.SchedulePayload) (*models.ScheduleEntry, error) {
	if _, err := s.prepare(ctx, payload, ""); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return created, nil
	}
	s.entries = append(s.entries, *created)
	return created, nil
}

// Update validates, rejects conflicting candidates locally and persists,
// excluding the edited entry from comparison.
func (s *ScheduleService) Update(ctx context.Context, id string, payload models.SchedulePayload) (*models.ScheduleEntry, error) {
	if _, err := s.prepare(ctx, payload, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return updated, nil
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i] = *updated
			break
		}
	}
	return updated, nil
}

// Delete removes an entry remotely and from the view cache.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
	return nil
}

// Close marks the owning view as disposed; later responses no longer touch
// the cache.
func (s *ScheduleService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// prepare validates the payload, derives the candidate entry (teacher and
// group identity come through the course) and runs conflict detection.
func (s *ScheduleService) prepare(ctx context.Context, payload models.SchedulePayload, excludeID string) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, ok := models.MinuteOfDay(payload.StartTime); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be HH:MM")
	}
	if _, ok := models.MinuteOfDay(payload.EndTime); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must be HH:MM")
	}

	candidate := models.ScheduleEntry{
		CourseID:  payload.CourseID,
		RoomID:    payload.RoomID,
		DayOfWeek: payload.DayOfWeek,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Type:      payload.Type,
	}
	course, err := s.courses.Find(ctx, payload.CourseID)
	if err != nil {
		return nil, err
	}
	candidate.CourseName = course.Title
	candidate.CourseCode = course.Code
	candidate.TeacherName = course.TeacherName
	candidate.GroupCode = course.GroupCode

	if conflicts := s.DetectConflicts(candidate, excludeID); len(conflicts) > 0 {
		conflictErr := &models.ConflictError{Conflicts: conflicts}
		return nil, appErrors.Wrap(conflictErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, conflictErr.Error())
	}
	return &candidate, nil
}
