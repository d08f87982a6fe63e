package application

import (
	"internhub/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusInterview Status = "interview"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInterview, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Application is one student's bid for one internship. StudentName is a
// point-in-time copy, same as Internship.MentorName.
type Application struct {
	ID           common.UUID `json:"id"`
	InternshipID common.UUID `json:"internshipId"`
	StudentID    common.UUID `json:"studentId"`
	StudentName  string      `json:"studentName"`
	AppliedDate  string      `json:"appliedDate"`
	Status       Status      `json:"status"`
	CoverLetter  string      `json:"coverLetter"`
	Resume       string      `json:"resume,omitempty"`
}
