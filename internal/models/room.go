package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RoomType is the closed room classification.
type RoomType string

const (
	RoomLectureHall RoomType = "Lecture Hall"
	RoomClassroom   RoomType = "Classroom"
	RoomLaboratory  RoomType = "Laboratory"
	RoomSeminarRoom RoomType = "Seminar Room"
	RoomOther       RoomType = "Other"
)

// UnmarshalJSON accepts the backend's two historical encodings: a numeric
// code or free text.
func (t *RoomType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*t = roomTypeFromCode(code)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		*t = RoomOther
		return nil
	}
	*t = ParseRoomType(text)
	return nil
}

func roomTypeFromCode(code int) RoomType {
	switch code {
	case 0:
		return RoomLectureHall
	case 1:
		return RoomClassroom
	case 2:
		return RoomLaboratory
	case 3:
		return RoomSeminarRoom
	default:
		return RoomOther
	}
}

// ParseRoomType maps free text onto the closed enumeration.
func ParseRoomType(text string) RoomType {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")
	switch normalized {
	case "lecture hall", "lecturehall", "amphitheater", "amphitheatre":
		return RoomLectureHall
	case "classroom", "class room", "class":
		return RoomClassroom
	case "laboratory", "lab":
		return RoomLaboratory
	case "seminar room", "seminarroom", "seminar":
		return RoomSeminarRoom
	default:
		if code, err := strconv.Atoi(normalized); err == nil {
			return roomTypeFromCode(code)
		}
		return RoomOther
	}
}

// Room is a teaching space.
type Room struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Building string   `json:"building"`
	Capacity int      `json:"capacity"`
	Type     RoomType `json:"type"`
}

// RoomPayload is the create/update shape.
type RoomPayload struct {
	Name     string   `json:"name" validate:"required"`
	Building string   `json:"building"`
	Capacity int      `json:"capacity" validate:"gte=0"`
	Type     RoomType `json:"type"`
}
