package repository

import (
	"context"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// GroupRepository manages student-group resources.
type GroupRepository struct {
	client *transport.Client
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(client *transport.Client) *GroupRepository {
	return &GroupRepository{client: client}
}

// List returns groups matching the filter.
func (r *GroupRepository) List(ctx context.Context, filter models.PageFilter) ([]models.Group, error) {
	raw, err := r.client.Get(ctx, "/groups", pageQuery(filter))
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Group](raw)
}

// Create adds a group.
func (r *GroupRepository) Create(ctx context.Context, payload models.GroupPayload) (*models.Group, error) {
	raw, err := r.client.Post(ctx, "/groups", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Group](raw)
}

// Update edits a group.
func (r *GroupRepository) Update(ctx context.Context, id string, payload models.GroupPayload) (*models.Group, error) {
	raw, err := r.client.Put(ctx, "/groups/"+id, payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Group](raw)
}

// Delete removes a group.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/groups/"+id)
	return err
}
