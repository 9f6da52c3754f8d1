package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// ScheduleRepository manages timetable entries.
type ScheduleRepository struct {
	client *transport.Client
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(client *transport.Client) *ScheduleRepository {
	return &ScheduleRepository{client: client}
}

// ScheduleScope narrows a schedule listing to one group or teacher.
type ScheduleScope struct {
	GroupCode string
	TeacherID string
}

// List returns schedule entries for the scope.
func (r *ScheduleRepository) List(ctx context.Context, scope ScheduleScope) ([]models.ScheduleEntry, error) {
	query := url.Values{}
	if scope.GroupCode != "" {
		query.Set("groupCode", scope.GroupCode)
	}
	if scope.TeacherID != "" {
		query.Set("teacherId", scope.TeacherID)
	}
	raw, err := r.client.Get(ctx, "/schedules", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.ScheduleEntry](raw)
}

// Create adds a schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, payload models.SchedulePayload) (*models.ScheduleEntry, error) {
	raw, err := r.client.Post(ctx, "/schedules", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.ScheduleEntry](raw)
}

// Update edits a schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, id string, payload models.SchedulePayload) (*models.ScheduleEntry, error) {
	raw, err := r.client.Put(ctx, "/schedules/"+id, payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.ScheduleEntry](raw)
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/schedules/"+id)
	return err
}
