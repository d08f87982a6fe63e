// Package stats computes dashboard roll-ups over collection snapshots. All
// functions are pure views: recomputed on every call, never persisted, and
// consistent with whatever snapshot they are handed.
package stats

import (
	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
)

// Overview is the admin dashboard aggregate.
type Overview struct {
	TotalUsers          int            `json:"totalUsers"`
	Students            int            `json:"students"`
	Mentors             int            `json:"mentors"`
	Admins              int            `json:"admins"`
	TotalInternships    int            `json:"totalInternships"`
	ActiveInternships   int            `json:"activeInternships"`
	TotalApplications   int            `json:"totalApplications"`
	PendingApplications int            `json:"pendingApplications"`
	UsersByDepartment   map[string]int `json:"usersByDepartment"`
	InternshipsByCompany map[string]int `json:"internshipsByCompany"`
}

func ComputeOverview(users []user.User, internships []internship.Internship, applications []application.Application) Overview {
	overview := Overview{
		TotalUsers:           len(users),
		TotalInternships:     len(internships),
		TotalApplications:    len(applications),
		UsersByDepartment:    make(map[string]int),
		InternshipsByCompany: make(map[string]int),
	}
	for _, u := range users {
		switch u.Role {
		case user.RoleStudent:
			overview.Students++
		case user.RoleMentor:
			overview.Mentors++
		case user.RoleAdmin:
			overview.Admins++
		}
		if u.Department != "" {
			overview.UsersByDepartment[u.Department]++
		}
	}
	for _, i := range internships {
		if i.Status == internship.StatusActive {
			overview.ActiveInternships++
		}
		if i.Company != "" {
			overview.InternshipsByCompany[i.Company]++
		}
	}
	for _, a := range applications {
		if a.Status == application.StatusPending {
			overview.PendingApplications++
		}
	}
	return overview
}

// MentorSummary aggregates one mentor's postings.
type MentorSummary struct {
	TotalInternships  int `json:"totalInternships"`
	ActiveInternships int `json:"activeInternships"`
	TotalApplications int `json:"totalApplications"`
	SelectedStudents  int `json:"selectedStudents"`
}

func ComputeMentorSummary(mentorID common.UUID, internships []internship.Internship, applications []application.Application) MentorSummary {
	summary := MentorSummary{}
	owned := make(map[common.UUID]bool)
	for _, i := range internships {
		if i.MentorID != mentorID {
			continue
		}
		owned[i.ID] = true
		summary.TotalInternships++
		if i.Status == internship.StatusActive {
			summary.ActiveInternships++
		}
		summary.SelectedStudents += len(i.SelectedStudents)
	}
	for _, a := range applications {
		if owned[a.InternshipID] {
			summary.TotalApplications++
		}
	}
	return summary
}

// StudentSummary aggregates one student's activity.
type StudentSummary struct {
	ActiveInternships    int `json:"activeInternships"`
	TotalApplications    int `json:"totalApplications"`
	AcceptedApplications int `json:"acceptedApplications"`
	PendingApplications  int `json:"pendingApplications"`
}

func ComputeStudentSummary(studentID common.UUID, internships []internship.Internship, applications []application.Application) StudentSummary {
	summary := StudentSummary{}
	for _, i := range internships {
		if i.Status == internship.StatusActive {
			summary.ActiveInternships++
		}
	}
	for _, a := range applications {
		if a.StudentID != studentID {
			continue
		}
		summary.TotalApplications++
		switch a.Status {
		case application.StatusAccepted:
			summary.AcceptedApplications++
		case application.StatusPending:
			summary.PendingApplications++
		}
	}
	return summary
}
