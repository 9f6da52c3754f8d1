package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// SeminarRepository manages seminar sessions, attendance and the bulk
// assignment grid.
type SeminarRepository struct {
	client *transport.Client
}

// NewSeminarRepository constructs a SeminarRepository.
func NewSeminarRepository(client *transport.Client) *SeminarRepository {
	return &SeminarRepository{client: client}
}

// ListByCourse returns the seminar sessions of a course.
func (r *SeminarRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Seminar, error) {
	query := url.Values{"courseId": []string{courseID}}
	raw, err := r.client.Get(ctx, "/seminars", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Seminar](raw)
}

// Attendance returns the attendance records of one seminar session.
func (r *SeminarRepository) Attendance(ctx context.Context, seminarID string) ([]models.AttendanceRecord, error) {
	raw, err := r.client.Get(ctx, "/seminars/"+seminarID+"/attendance", nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.AttendanceRecord](raw)
}

// SaveAttendance persists the attendance set of one session in one request.
func (r *SeminarRepository) SaveAttendance(ctx context.Context, seminarID string, records []models.AttendanceRecord) error {
	_, err := r.client.Put(ctx, "/seminars/"+seminarID+"/attendance", records)
	return err
}

// SubmitAssignmentGrid persists a course's full assignment grid in a single
// request. Per-cell edits are never sent individually.
func (r *SeminarRepository) SubmitAssignmentGrid(ctx context.Context, grid models.AssignmentGrid) error {
	_, err := r.client.Post(ctx, "/seminars/assignments/bulk", grid)
	return err
}
