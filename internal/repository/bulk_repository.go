package repository

import (
	"context"
	"io"

	"github.com/noah-isme/campus-portal-client/internal/transport"
	"github.com/noah-isme/campus-portal-client/pkg/envelope"
)

// BulkRepository covers the Excel import/export endpoints for students and
// teachers. Spreadsheet bodies stay opaque blobs; the client never parses
// them.
type BulkRepository struct {
	client *transport.Client
}

// NewBulkRepository constructs a BulkRepository.
func NewBulkRepository(client *transport.Client) *BulkRepository {
	return &BulkRepository{client: client}
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// StudentTemplate downloads the student import template.
func (r *BulkRepository) StudentTemplate(ctx context.Context) (*transport.Blob, error) {
	return r.client.Download(ctx, "/students/template", nil)
}

// ImportStudents uploads a filled student spreadsheet.
func (r *BulkRepository) ImportStudents(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	raw, err := r.client.Upload(ctx, "/students/import", "file", filename, file, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &ImportResult{}, nil
	}
	return envelope.DecodeObject[ImportResult](raw)
}

// ExportStudents downloads the current student roster as a spreadsheet.
func (r *BulkRepository) ExportStudents(ctx context.Context) (*transport.Blob, error) {
	return r.client.Download(ctx, "/students/export", nil)
}

// TeacherTemplate downloads the teacher import template.
func (r *BulkRepository) TeacherTemplate(ctx context.Context) (*transport.Blob, error) {
	return r.client.Download(ctx, "/teachers/template", nil)
}

// ImportTeachers uploads a filled teacher spreadsheet.
func (r *BulkRepository) ImportTeachers(ctx context.Context, filename string, file io.Reader) (*ImportResult, error) {
	raw, err := r.client.Upload(ctx, "/teachers/import", "file", filename, file, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &ImportResult{}, nil
	}
	return envelope.DecodeObject[ImportResult](raw)
}

// ExportTeachers downloads the teaching staff as a spreadsheet.
func (r *BulkRepository) ExportTeachers(ctx context.Context) (*transport.Blob, error) {
	return r.client.Download(ctx, "/teachers/export", nil)
}
