package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// DepartmentRepository covers departments and their specializations.
type DepartmentRepository struct {
	client *transport.Client
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(client *transport.Client) *DepartmentRepository {
	return &DepartmentRepository{client: client}
}

// Departments lists all departments.
func (r *DepartmentRepository) Departments(ctx context.Context) ([]models.Department, error) {
	raw, err := r.client.Get(ctx, "/departments", nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Department](raw)
}

// Specializations lists study tracks, optionally narrowed to one department.
func (r *DepartmentRepository) Specializations(ctx context.Context, departmentID string) ([]models.Specialization, error) {
	var query url.Values
	if departmentID != "" {
		query = url.Values{"departmentId": []string{departmentID}}
	}
	raw, err := r.client.Get(ctx, "/specializations", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Specialization](raw)
}
