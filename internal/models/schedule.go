package models

import (
	"strconv"
	"strings"
)

// ScheduleEntry is one timetabled class occurrence.
type ScheduleEntry struct {
	ID          string `json:"id"`
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	CourseCode  string `json:"courseCode"`
	TeacherName string `json:"teacherName"`
	RoomID      string `json:"roomId"`
	RoomName    string `json:"roomName"`
	GroupCode   string `json:"groupCode"`
	DayOfWeek   string `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
}

// SchedulePayload is the create/update shape.
type SchedulePayload struct {
	CourseID  string `json:"courseId" validate:"required"`
	RoomID    string `json:"roomId" validate:"required"`
	DayOfWeek string `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Type      string `json:"type"`
}

// ConflictReason classifies why two entries collide.
type ConflictReason string

const (
	ConflictRoom    ConflictReason = "room"
	ConflictTeacher ConflictReason = "teacher"
	ConflictGroup   ConflictReason = "group"
)

// ScheduleConflict reports one conflicting pairing. An overlapping entry can
// contribute several of these, one per matching dimension.
type ScheduleConflict struct {
	Reason ConflictReason `json:"reason"`
	Entry  ScheduleEntry  `json:"conflictingEntry"`
}

// ConflictError rejects a schedule mutation locally, before any network
// call, listing every detected conflict.
type ConflictError struct {
	Conflicts []ScheduleConflict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil || len(e.Conflicts) == 0 {
		return "schedule conflict"
	}
	reasons := make([]string, 0, len(e.Conflicts))
	for _, conflict := range e.Conflicts {
		reasons = append(reasons, string(conflict.Reason)+" clash with "+conflict.Entry.CourseName+" ("+conflict.Entry.StartTime+"-"+conflict.Entry.EndTime+")")
	}
	return "schedule conflict: " + strings.Join(reasons, "; ")
}

// MinuteOfDay parses an "HH:MM" wall-clock string. The second result is
// false for anything malformed.
func MinuteOfDay(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// Overlaps tests half-open interval overlap between two entries. Zero-length
// or malformed intervals never overlap.
func (e ScheduleEntry) Overlaps(other ScheduleEntry) bool {
	startA, okA := MinuteOfDay(e.StartTime)
	endA, okB := MinuteOfDay(e.EndTime)
	startB, okC := MinuteOfDay(other.StartTime)
	endB, okD := MinuteOfDay(other.EndTime)
	if !okA || !okB || !okC || !okD {
		return false
	}
	return startA < endB && endA > startB
}
