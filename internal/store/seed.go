package store

import (
	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
)

// Seed dataset used when a durable key is absent on first run. Ids are the
// legacy short ids so existing references between the seeds hold.

func seedUsers() []user.User {
	return []user.User{
		{
			ID:    "1",
			Email: "admin@lms.com",
			Name:  "System Admin",
			Role:  user.RoleAdmin,
		},
		{
			ID:         "2",
			Email:      "mentor@company.com",
			Name:       "Sarah Johnson",
			Role:       user.RoleMentor,
			Company:    "Tech Solutions Inc.",
			Department: "Software Engineering",
			Experience: 8,
			Skills:     []string{"React", "Node.js", "Python", "Machine Learning"},
			Bio:        "Senior Software Engineer with 8+ years of experience in full-stack development.",
		},
		{
			ID:         "3",
			Email:      "student@university.edu",
			Name:       "Alex Chen",
			Role:       user.RoleStudent,
			Department: "Computer Science",
			Skills:     []string{"JavaScript", "React", "Python"},
			Bio:        "Computer Science student passionate about web development and AI.",
		},
	}
}

func seedInternships() []internship.Internship {
	return []internship.Internship{
		{
			ID:               "1",
			Title:            "Frontend Developer Intern",
			Company:          "Tech Solutions Inc.",
			Description:      "Join our dynamic team to work on cutting-edge web applications using React, TypeScript, and modern CSS frameworks.",
			Requirements:     []string{"React", "TypeScript", "HTML/CSS", "Git"},
			Duration:         "3 months",
			Location:         "San Francisco, CA",
			Type:             internship.TypeHybrid,
			MentorID:         "2",
			MentorName:       "Sarah Johnson",
			PostedDate:       "2024-01-15",
			Deadline:         "2024-02-15",
			Status:           internship.StatusActive,
			Applicants:       []common.UUID{"3"},
			SelectedStudents: []common.UUID{},
			MaxStudents:      2,
			Tags:             []string{"Frontend", "React", "JavaScript"},
			Salary:           "$2000/month",
		},
		{
			ID:               "2",
			Title:            "Data Science Intern",
			Company:          "Analytics Corp",
			Description:      "Work with our data science team on machine learning projects and data analysis using Python and modern ML frameworks.",
			Requirements:     []string{"Python", "Machine Learning", "Statistics", "SQL"},
			Duration:         "4 months",
			Location:         "New York, NY",
			Type:             internship.TypeOnsite,
			MentorID:         "2",
			MentorName:       "Sarah Johnson",
			PostedDate:       "2024-01-10",
			Deadline:         "2024-02-20",
			Status:           internship.StatusActive,
			Applicants:       []common.UUID{},
			SelectedStudents: []common.UUID{},
			MaxStudents:      1,
			Tags:             []string{"Data Science", "Python", "ML"},
			Salary:           "$2500/month",
		},
	}
}

func seedApplications() []application.Application {
	return []application.Application{
		{
			ID:           "1",
			InternshipID: "1",
			StudentID:    "3",
			StudentName:  "Alex Chen",
			AppliedDate:  "2024-01-16",
			Status:       application.StatusPending,
			CoverLetter:  "I am very interested in this frontend developer internship opportunity. I have experience with React and TypeScript through my coursework and personal projects.",
		},
	}
}
