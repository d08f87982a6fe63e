package store

import (
	"internhub/internal/common"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
)

// RegisterInput carries everything registration needs. Password is accepted
// for interface compatibility with the remote backend but is not stored or
// verified here; credential checking is owned by an external service.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Role       user.Role
	Avatar     string
	Department string
	Company    string
	Bio        string
	Skills     []string
	Experience int
}

// ProfileUpdate is a merge-patch over a User. Nil pointers leave the field
// untouched; a nil Skills slice leaves skills untouched. Role is immutable
// after registration and deliberately absent.
type ProfileUpdate struct {
	Email      *string
	Name       *string
	Avatar     *string
	Department *string
	Company    *string
	Bio        *string
	Skills     []string
	Experience *int
}

// NewInternshipInput is a posting as supplied by the mentor flow. MentorName
// is the caller's denormalized snapshot of the mentor's display name.
type NewInternshipInput struct {
	Title        string
	Company      string
	Description  string
	Requirements []string
	Duration     string
	Location     string
	Type         internship.LocationType
	MentorID     common.UUID
	MentorName   string
	Deadline     string
	Status       internship.Status
	MaxStudents  int
	Tags         []string
	Salary       string
}

// InternshipPatch is a merge-patch over a posting. Applicants is absent on
// purpose: it is kept in lock-step with the application collection and only
// the apply/delete flow may touch it. SelectedStudents may be replaced
// wholesale and is validated against the applicant set.
type InternshipPatch struct {
	Title            *string
	Company          *string
	Description      *string
	Requirements     []string
	Duration         *string
	Location         *string
	Type             *internship.LocationType
	Deadline         *string
	Status           *internship.Status
	MaxStudents      *int
	Tags             []string
	Salary           *string
	SelectedStudents []common.UUID
}

// NewApplicationInput is a student's bid. StudentName is the caller's
// denormalized snapshot, mirroring MentorName on postings.
type NewApplicationInput struct {
	InternshipID common.UUID
	StudentID    common.UUID
	StudentName  string
	CoverLetter  string
	Resume       string
}
