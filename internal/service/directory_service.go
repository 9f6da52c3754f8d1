package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/models"
	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

type roomLister interface {
	List(ctx context.Context, filter models.PageFilter) ([]models.Room, error)
}

type groupLister interface {
	List(ctx context.Context, filter models.PageFilter) ([]models.Group, error)
}

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type teacherLister interface {
	List(ctx context.Context, filter models.PageFilter) ([]models.Teacher, error)
}

type departmentLister interface {
	Departments(ctx context.Context) ([]models.Department, error)
	Specializations(ctx context.Context, departmentID string) ([]models.Specialization, error)
}

type courseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

// DirectoryService backs the management console listings: rooms, groups,
// students, teachers, departments, specializations and taught subjects.
// Results are cached for the lifetime of the owning view only.
type DirectoryService struct {
	rooms       roomLister
	groups      groupLister
	students    studentLister
	teachers    teacherLister
	departments departmentLister
	courses     courseLister
	logger      *zap.Logger

	mu     sync.Mutex
	closed bool

	cachedRooms    []models.Room
	cachedGroups   []models.Group
	cachedStudents []models.Student
	cachedCourses  []models.Course
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(rooms roomLister, groups groupLister, students studentLister, teachers teacherLister, departments departmentLister, courses courseLister, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		rooms:       rooms,
		groups:      groups,
		students:    students,
		teachers:    teachers,
		departments: departments,
		courses:     courses,
		logger:      logger,
	}
}

// Rooms lists rooms and caches the page for the view.
func (s *DirectoryService) Rooms(ctx context.Context, filter models.PageFilter) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.cachedRooms = rooms
	return rooms, nil
}

// Groups lists groups and caches the page for the view.
func (s *DirectoryService) Groups(ctx context.Context, filter models.PageFilter) ([]models.Group, error) {
	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.cachedGroups = groups
	return groups, nil
}

// Students lists students and caches the page for the view.
func (s *DirectoryService) Students(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.cachedStudents = students
	return students, nil
}

// Teachers lists teaching staff.
func (s *DirectoryService) Teachers(ctx context.Context, filter models.PageFilter) ([]models.Teacher, error) {
	return s.teachers.List(ctx, filter)
}

// Departments lists departments.
func (s *DirectoryService) Departments(ctx context.Context) ([]models.Department, error) {
	return s.departments.Departments(ctx)
}

// Specializations lists study tracks of one department.
func (s *DirectoryService) Specializations(ctx context.Context, departmentID string) ([]models.Specialization, error) {
	return s.departments.Specializations(ctx, departmentID)
}

// Courses lists taught subjects and caches the page for the view.
func (s *DirectoryService) Courses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, appErrors.Clone(appErrors.ErrViewClosed, "")
	}
	s.cachedCourses = courses
	return courses, nil
}

// CachedStudents returns the last loaded student page without a fetch.
func (s *DirectoryService) CachedStudents() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Student, len(s.cachedStudents))
	copy(out, s.cachedStudents)
	return out
}

// CachedRooms returns the last loaded room page without a fetch.
func (s *DirectoryService) CachedRooms() []models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Room, len(s.cachedRooms))
	copy(out, s.cachedRooms)
	return out
}

// Close marks the owning view as disposed.
func (s *DirectoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
