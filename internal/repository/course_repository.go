package repository

import (
	"context"
	"io"

	"github.com/noah-isme/campus-portal-client/internal/models"
	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// CourseRepository manages taught subjects and their syllabus files.
type CourseRepository struct {
	client *transport.Client
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(client *transport.Client) *CourseRepository {
	return &CourseRepository{client: client}
}

// List returns taught subjects matching the filter.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	query := pageQuery(filter.PageFilter)
	if filter.TeacherID != "" {
		query.Set("teacherId", filter.TeacherID)
	}
	if filter.GroupID != "" {
		query.Set("groupId", filter.GroupID)
	}
	if filter.Department != "" {
		query.Set("department", filter.Department)
	}
	raw, err := r.client.Get(ctx, "/taught-subjects", query)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeList[models.Course](raw)
}

// Find fetches one taught subject.
func (r *CourseRepository) Find(ctx context.Context, id string) (*models.Course, error) {
	raw, err := r.client.Get(ctx, "/taught-subjects/"+id, nil)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Course](raw)
}

// Create adds a taught subject.
func (r *CourseRepository) Create(ctx context.Context, payload models.CoursePayload) (*models.Course, error) {
	raw, err := r.client.Post(ctx, "/taught-subjects", payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Course](raw)
}

// Update edits a taught subject.
func (r *CourseRepository) Update(ctx context.Context, id string, payload models.CoursePayload) (*models.Course, error) {
	raw, err := r.client.Put(ctx, "/taught-subjects/"+id, payload)
	if err != nil {
		return nil, err
	}
	return envelope.DecodeObject[models.Course](raw)
}

// Delete removes a taught subject.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, "/taught-subjects/"+id)
	return err
}

// UploadSyllabus attaches or replaces the syllabus file of a subject.
func (r *CourseRepository) UploadSyllabus(ctx context.Context, courseID, filename string, file io.Reader) error {
	_, err := r.client.Upload(ctx, "/taught-subjects/"+courseID+"/syllabus", "file", filename, file, nil)
	return err
}

// DownloadSyllabus fetches the stored syllabus file.
func (r *CourseRepository) DownloadSyllabus(ctx context.Context, courseID string) (*transport.Blob, error) {
	return r.client.Download(ctx, "/taught-subjects/"+courseID+"/syllabus", nil)
}

// DeleteSyllabus removes the syllabus file.
func (r *CourseRepository) DeleteSyllabus(ctx context.Context, courseID string) error {
	_, err := r.client.Delete(ctx, "/taught-subjects/"+courseID+"/syllabus")
	return err
}
