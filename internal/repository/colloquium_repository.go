package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// ColloquiumRepository manages colloquium grade records.
type ColloquiumRepository struct {
	client *transport.Client
}

// NewColloquiumRepository constructs a ColloquiumRepository.
func NewColloquiumRepository(client *transport.Client) *ColloquiumRepository {
	return &ColloquiumRepository{client: client}
}

// ListByCourse returns the authoritative record set for a course.
func (r *ColloquiumRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Colloquium, error) {
	query := url.Values{"courseId": []string{courseID}}
	raw, err := r.client.Get(ctx, "/colloquiums", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Colloquium](raw)
}

// Create adds a colloquium record.
func (r *ColloquiumRepository) Create(ctx context.Context, payload models.ColloquiumPayload) (*models.Colloquium, error) {
	raw, err := r.client.Post(ctx, "/colloquiums", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Colloquium](raw)
}

// UpdateGrade changes the score of an existing record.
func (r *ColloquiumRepository) UpdateGrade(ctx context.Context, id string, grade int) (*models.Colloquium, error) {
	raw, err := r.client.Put(ctx, "/colloquiums/"+id, map[string]int{"grade": grade})
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Colloquium](raw)
}

// Delete removes a colloquium record.
func (r *ColloquiumRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/colloquiums/"+id)
	return err
}
