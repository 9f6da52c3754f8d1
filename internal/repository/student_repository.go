package repository

import (
	"context"
	"strconv"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// StudentRepository manages student resources.
type StudentRepository struct {
	client *transport.Client
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(client *transport.Client) *StudentRepository {
	return &StudentRepository{client: client}
}

// List returns students matching the filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query := pageQuery(filter.PageFilter)
	if filter.GroupID != "" {
		query.Set("groupId", filter.GroupID)
	}
	if filter.Year > 0 {
		query.Set("year", strconv.Itoa(filter.Year))
	}
	raw, err := r.client.Get(ctx, "/students", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Student](raw)
}

// Find fetches one student.
func (r *StudentRepository) Find(ctx context.Context, id string) (*models.Student, error) {
	raw, err := r.client.Get(ctx, "/students/"+id, nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Student](raw)
}

// Create adds a student.
func (r *StudentRepository) Create(ctx context.Context, payload models.StudentPayload) (*models.Student, error) {
	raw, err := r.client.Post(ctx, "/students", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Student](raw)
}

// Update edits a student.
func (r *StudentRepository) Update(ctx context.Context, id string, payload models.StudentPayload) (*models.Student, error) {
	raw, err := r.client.Put(ctx, "/students/"+id, payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Student](raw)
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/students/"+id)
	return err
}
