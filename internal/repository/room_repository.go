package repository

import (
	"context"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// RoomRepository manages room resources.
type RoomRepository struct {
	client *transport.Client
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(client *transport.Client) *RoomRepository {
	return &RoomRepository{client: client}
}

// List returns rooms matching the filter.
func (r *RoomRepository) List(ctx context.Context, filter models.PageFilter) ([]models.Room, error) {
	raw, err := r.client.Get(ctx, "/rooms", pageQuery(filter))
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Room](raw)
}

// Create adds a room.
func (r *RoomRepository) Create(ctx context.Context, payload models.RoomPayload) (*models.Room, error) {
	raw, err := r.client.Post(ctx, "/rooms", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Room](raw)
}

// Update edits a room.
func (r *RoomRepository) Update(ctx context.Context, id string, payload models.RoomPayload) (*models.Room, error) {
	raw, err := r.client.Put(ctx, "/rooms/"+id, payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Room](raw)
}

// Delete removes a room.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/rooms/"+id)
	return err
}
