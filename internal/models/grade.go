package models

import "time"

// AssignmentMark is the tri-state outcome of a seminar assignment.
type AssignmentMark string

const (
	MarkUngraded AssignmentMark = "ungraded"
	MarkPass     AssignmentMark = "pass"
	MarkFail     AssignmentMark = "fail"
)

// Next cycles ungraded -> pass -> fail -> ungraded.
func (m AssignmentMark) Next() AssignmentMark {
	switch m {
	case MarkUngraded:
		return MarkPass
	case MarkPass:
		return MarkFail
	default:
		return MarkUngraded
	}
}

// Colloquium is a graded mini-exam record for one student and course slot.
type Colloquium struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	CourseID  string    `json:"courseId"`
	Slot      int       `json:"slot"`
	Date      time.Time `json:"date"`
	Grade     int       `json:"grade"`
}

// ColloquiumPayload is the create/update shape.
type ColloquiumPayload struct {
	StudentID string    `json:"studentId" validate:"required"`
	CourseID  string    `json:"courseId" validate:"required"`
	Slot      int       `json:"slot" validate:"gte=0"`
	Date      time.Time `json:"date"`
	Grade     int       `json:"grade" validate:"gte=0,lte=10"`
}

// AssignmentGridEntry is one cell of the bulk assignment submission.
type AssignmentGridEntry struct {
	StudentID string         `json:"studentId"`
	Mark      AssignmentMark `json:"mark"`
}

// AssignmentGrid is the single bulk persistence payload for a course's
// assignment marks.
type AssignmentGrid struct {
	CourseID string                `json:"courseId" validate:"required"`
	Entries  []AssignmentGridEntry `json:"entries" validate:"dive"`
}

// AttendanceRecord pairs presence with an optional session grade.
type AttendanceRecord struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	SeminarID string    `json:"seminarId"`
	Date      time.Time `json:"date"`
	Present   bool      `json:"present"`
	Grade     *int      `json:"grade,omitempty"`
}

// Seminar is one seminar session of a course.
type Seminar struct {
	ID       string    `json:"id"`
	CourseID string    `json:"courseId"`
	Topic    string    `json:"topic"`
	Date     time.Time `json:"date"`
}
