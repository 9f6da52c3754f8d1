package models

// PageFilter carries the common list parameters every listing endpoint
// accepts.
type PageFilter struct {
	Page     int
	PageSize int
	Search   string
}

// Group is a cohort of students.
type Group struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Department   string `json:"department"`
	Year         int    `json:"year"`
	StudentCount int    `json:"studentCount"`
}

// GroupPayload is the create/update shape.
type GroupPayload struct {
	Code       string `json:"code" validate:"required"`
	Department string `json:"department"`
	Year       int    `json:"year" validate:"gte=0"`
}

// Student is an enrolled student record.
type Student struct {
	ID             string `json:"id"`
	StudentID      string `json:"studentId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	GroupID        string `json:"groupId"`
	GroupCode      string `json:"groupCode"`
	Year           int    `json:"year"`
	Specialization string `json:"specialization"`
	DateOfBirth    string `json:"dateOfBirth"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	Language       string `json:"language"`
}

// StudentPayload is the create/update shape.
type StudentPayload struct {
	StudentID      string `json:"studentId" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	GroupID        string `json:"groupId"`
	Year           int    `json:"year" validate:"gte=0"`
	Specialization string `json:"specialization"`
	DateOfBirth    string `json:"dateOfBirth"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	Language       string `json:"language"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	PageFilter
	GroupID string
	Year    int
}

// Teacher is a teaching staff record.
type Teacher struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Title      string `json:"title"`
}

// Department groups courses and staff.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Specialization is a study track within a department.
type Specialization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
	Years        int    `json:"years"`
}
