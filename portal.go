// Package campusportal is the data-access core of the campus portal
// client. It owns sign-in and role resolution, typed access to the
// backend's REST resources behind envelope normalization, local schedule
// conflict detection and optimistic grade editing. Presentation layers
// build views on top of the per-view services handed out here.
package campusportal

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-client/internal/repository"
	"github.com/noah-isme/campus-portal-client/internal/service"
	"github.com/noah-isme/campus-portal-client/internal/session"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/config"
	"github.com/noah-isme/campus-portal-client/pkg/logger"
	"github.com/noah-isme/campus-portal-client/pkg/storage"
)

// Portal is the composition root. One Portal lives for the whole process;
// view-scoped services are created per view and closed when the view goes
// away.
type Portal struct {
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	sessions *session.Provider
	client   *transport.Client
	metrics  *transport.Metrics

	auth        *repository.AuthRepository
	rooms       *repository.RoomRepository
	groups      *repository.GroupRepository
	students    *repository.StudentRepository
	teachers    *repository.TeacherRepository
	departments *repository.DepartmentRepository
	courses     *repository.CourseRepository
	schedules   *repository.ScheduleRepository
	colloquiums *repository.ColloquiumRepository
	seminars    *repository.SeminarRepository
	bulk        *repository.BulkRepository

	authService *service.AuthService
}

// New loads configuration from the environment and assembles the portal.
func New() (*Portal, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig assembles the portal from an explicit configuration.
func NewWithConfig(cfg *config.Config) (*Portal, error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := session.NewFileStore(cfg.Session.Dir)
	if err != nil {
		return nil, err
	}
	sessions := session.NewProvider(store)

	metrics := transport.NewMetrics()
	client := transport.New(cfg.Client, sessions, log, metrics)

	p := &Portal{
		cfg:      cfg,
		logger:   log,
		validate: validator.New(),
		sessions: sessions,
		client:   client,
		metrics:  metrics,

		auth:        repository.NewAuthRepository(client),
		rooms:       repository.NewRoomRepository(client),
		groups:      repository.NewGroupRepository(client),
		students:    repository.NewStudentRepository(client),
		teachers:    repository.NewTeacherRepository(client),
		departments: repository.NewDepartmentRepository(client),
		courses:     repository.NewCourseRepository(client),
		schedules:   repository.NewScheduleRepository(client),
		colloquiums: repository.NewColloquiumRepository(client),
		seminars:    repository.NewSeminarRepository(client),
		bulk:        repository.NewBulkRepository(client),
	}

	p.authService = service.NewAuthService(p.auth, sessions, p.validate, log, service.AuthConfig{
		AllowManualRoleOverride: cfg.Features.AllowManualRoleOverride,
	})
	return p, nil
}

// Auth returns the process-wide authentication service.
func (p *Portal) Auth() *service.AuthService {
	return p.authService
}

// NewScheduleView creates a view-scoped timetable service. Close it when
// the view unmounts.
func (p *Portal) NewScheduleView() *service.ScheduleService {
	return service.NewScheduleService(p.schedules, p.courses, p.validate, p.logger)
}

// NewGradebookView creates a view-scoped grading service for one course.
func (p *Portal) NewGradebookView(courseID string) *service.GradebookService {
	return service.NewGradebookService(courseID, p.colloquiums, p.seminars, p.validate, p.logger)
}

// NewDirectoryView creates a view-scoped management-console listing
// service.
func (p *Portal) NewDirectoryView() *service.DirectoryService {
	return service.NewDirectoryService(p.rooms, p.groups, p.students, p.teachers, p.departments, p.courses, p.logger)
}

// NewExportService creates the export/import service writing under the
// configured export directory.
func (p *Portal) NewExportService() (*service.ExportService, error) {
	store, err := storage.NewLocal(p.cfg.Export.Dir)
	if err != nil {
		return nil, err
	}
	return service.NewExportService(p.bulk, store, p.logger), nil
}

// Metrics exposes client-side request instrumentation for scraping or
// inspection.
func (p *Portal) Metrics() *transport.Metrics {
	return p.metrics
}

// Typed resource access for mutations the view services do not mediate.

func (p *Portal) Rooms() *repository.RoomRepository             { return p.rooms }
func (p *Portal) Groups() *repository.GroupRepository           { return p.groups }
func (p *Portal) Students() *repository.StudentRepository       { return p.students }
func (p *Portal) Teachers() *repository.TeacherRepository       { return p.teachers }
func (p *Portal) Departments() *repository.DepartmentRepository { return p.departments }
func (p *Portal) Courses() *repository.CourseRepository         { return p.courses }
