package models

// Course is a taught subject bound to a teacher and a group.
type Course struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Credits      int    `json:"credits"`
	Type         string `json:"type"`
	Department   string `json:"department"`
	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName"`
	GroupID      string `json:"groupId"`
	GroupCode    string `json:"groupCode"`
	StudentCount int    `json:"studentCount"`
	HasSyllabus  bool   `json:"hasSyllabus"`
}

// CoursePayload is the create/update shape.
type CoursePayload struct {
	Code       string `json:"code" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Credits    int    `json:"credits" validate:"gte=0"`
	Type       string `json:"type"`
	Department string `json:"department"`
	TeacherID  string `json:"teacherId"`
	GroupID    string `json:"groupId"`
}

// CourseFilter narrows taught-subject listings.
type CourseFilter struct {
	PageFilter
	TeacherID  string
	GroupID    string
	Department string
}
