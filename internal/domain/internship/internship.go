package internship

import (
	"internhub/internal/common"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusClosed:
		return true
	default:
		return false
	}
}

type LocationType string

const (
	TypeRemote LocationType = "remote"
	TypeOnsite LocationType = "onsite"
	TypeHybrid LocationType = "hybrid"
)

func (t LocationType) Valid() bool {
	switch t {
	case TypeRemote, TypeOnsite, TypeHybrid:
		return true
	default:
		return false
	}
}

// Internship is a posting owned by a mentor. MentorName is a point-in-time
// copy of the mentor's name at posting time and is not rewritten when the
// mentor later renames. Applicants mirrors the student ids of the posting's
// live applications; SelectedStudents is always a subset of Applicants.
type Internship struct {
	ID               common.UUID   `json:"id"`
	Title            string        `json:"title"`
	Company          string        `json:"company"`
	Description      string        `json:"description"`
	Requirements     []string      `json:"requirements"`
	Duration         string        `json:"duration"`
	Location         string        `json:"location"`
	Type             LocationType  `json:"type"`
	MentorID         common.UUID   `json:"mentorId"`
	MentorName       string        `json:"mentorName"`
	PostedDate       string        `json:"postedDate"`
	Deadline         string        `json:"deadline"`
	Status           Status        `json:"status"`
	Applicants       []common.UUID `json:"applicants"`
	SelectedStudents []common.UUID `json:"selectedStudents"`
	MaxStudents      int           `json:"maxStudents"`
	Tags             []string      `json:"tags,omitempty"`
	Salary           string        `json:"salary,omitempty"`
}

func (i Internship) Clone() Internship {
	clone := i
	clone.Requirements = append([]string(nil), i.Requirements...)
	clone.Applicants = append([]common.UUID(nil), i.Applicants...)
	clone.SelectedStudents = append([]common.UUID(nil), i.SelectedStudents...)
	clone.Tags = append([]string(nil), i.Tags...)
	return clone
}

func (i Internship) HasApplicant(studentID common.UUID) bool {
	for _, id := range i.Applicants {
		if id == studentID {
			return true
		}
	}
	return false
}

func (i Internship) HasSelected(studentID common.UUID) bool {
	for _, id := range i.SelectedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}
