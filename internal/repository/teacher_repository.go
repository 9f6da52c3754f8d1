package repository

import (
	"context"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// TeacherRepository manages teaching-staff resources.
type TeacherRepository struct {
	client *transport.Client
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(client *transport.Client) *TeacherRepository {
	return &TeacherRepository{client: client}
}

// List returns teachers matching the filter.
func (r *TeacherRepository) List(ctx context.Context, filter models.PageFilter) ([]models.Teacher, error) {
	raw, err := r.client.Get(ctx, "/teachers", pageQuery(filter))
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Teacher](raw)
}

// Find fetches one teacher.
func (r *TeacherRepository) Find(ctx context.Context, id string) (*models.Teacher, error) {
	raw, err := r.client.Get(ctx, "/teachers/"+id, nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Teacher](raw)
}
