package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/domain/internship"
	"internhub/internal/storage"
)

// Options toggles enforcement the original system never had. The zero value
// plus AllowDuplicateApplications=true reproduces the permissive behavior.
type Options struct {
	// StrictCapacity rejects selections that would exceed MaxStudents.
	StrictCapacity bool
	// AllowDuplicateApplications permits a student to apply to the same
	// posting more than once.
	AllowDuplicateApplications bool
}

// DefaultOptions matches the original permissive behavior.
func DefaultOptions() Options {
	return Options{StrictCapacity: false, AllowDuplicateApplications: true}
}

// EngagementStore owns postings and applications and keeps their
// cross-references intact: every application points at a live posting, a
// posting's applicant list is exactly the student ids of its applications,
// and selected students are always applicants. Mutators persist the new
// snapshots before swapping the in-memory slices; on a persistence error the
// in-memory state is unchanged.
type EngagementStore struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *zap.Logger
	opts    Options
	now     func() time.Time

	internships  []internship.Internship
	applications []application.Application
}

func NewEngagementStore(ctx context.Context, adapter storage.Adapter, opts Options, logger *zap.Logger) (*EngagementStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EngagementStore{adapter: adapter, logger: logger, opts: opts, now: time.Now}

	raw, err := adapter.Load(ctx, storage.KeyInternships)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.internships); err != nil {
			return nil, fmt.Errorf("decode internships: %w", err)
		}
	case err == storage.ErrNotFound:
		s.internships = seedInternships()
		logger.Info("internships collection absent, using seed dataset", zap.Int("count", len(s.internships)))
	default:
		return nil, fmt.Errorf("load internships: %w", err)
	}

	raw, err = adapter.Load(ctx, storage.KeyApplications)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.applications); err != nil {
			return nil, fmt.Errorf("decode applications: %w", err)
		}
	case err == storage.ErrNotFound:
		s.applications = seedApplications()
		logger.Info("applications collection absent, using seed dataset", zap.Int("count", len(s.applications)))
	default:
		return nil, fmt.Errorf("load applications: %w", err)
	}

	return s, nil
}

// AddInternship stamps id, posted date, and empty applicant/selection lists,
// then appends the posting. Mentor id and the denormalized mentor name must
// be supplied by the caller.
func (s *EngagementStore) AddInternship(ctx context.Context, input NewInternshipInput) (*internship.Internship, error) {
	if fields := validateNewInternship(input); len(fields) > 0 {
		return nil, common.NewValidationError("invalid internship", fields)
	}

	status := input.Status
	if status == "" {
		status = internship.StatusActive
	}
	if !status.Valid() {
		return nil, common.NewValidationError("invalid internship", map[string]string{"status": "status must be draft, active, or closed"})
	}
	maxStudents := input.MaxStudents
	if maxStudents == 0 {
		maxStudents = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := internship.Internship{
		ID:               common.NewUUID(),
		Title:            strings.TrimSpace(input.Title),
		Company:          strings.TrimSpace(input.Company),
		Description:      input.Description,
		Requirements:     append([]string(nil), input.Requirements...),
		Duration:         input.Duration,
		Location:         input.Location,
		Type:             input.Type,
		MentorID:         input.MentorID,
		MentorName:       input.MentorName,
		PostedDate:       s.now().UTC().Format("2006-01-02"),
		Deadline:         input.Deadline,
		Status:           status,
		Applicants:       []common.UUID{},
		SelectedStudents: []common.UUID{},
		MaxStudents:      maxStudents,
		Tags:             append([]string(nil), input.Tags...),
		Salary:           input.Salary,
	}

	next := s.cloneInternships()
	next = append(next, created)
	if err := s.saveInternships(ctx, next); err != nil {
		return nil, err
	}
	s.internships = next

	s.logger.Info("internship posted", zap.String("internship_id", created.ID.String()), zap.String("mentor_id", created.MentorID.String()))
	result := created.Clone()
	return &result, nil
}

// UpdateInternship merge-patches a posting. Status changes are free-form:
// any known status may replace any other. SelectedStudents, when present,
// must stay a subset of the applicant list.
func (s *EngagementStore) UpdateInternship(ctx context.Context, id common.UUID, patch InternshipPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return common.NewValidationError("invalid internship update", map[string]string{"status": "status must be draft, active, or closed"})
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return common.NewValidationError("invalid internship update", map[string]string{"type": "type must be remote, onsite, or hybrid"})
	}
	if patch.MaxStudents != nil && *patch.MaxStudents <= 0 {
		return common.NewValidationError("invalid internship update", map[string]string{"maxStudents": "maxStudents must be positive"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.internshipIndex(id)
	if index == -1 {
		return common.NewError(common.CodeNotFound, "internship not found", nil)
	}

	next := s.cloneInternships()
	target := &next[index]
	if patch.SelectedStudents != nil {
		for _, studentID := range patch.SelectedStudents {
			if !target.HasApplicant(studentID) {
				return common.NewValidationError("invalid internship update", map[string]string{"selectedStudents": "selected students must be applicants"})
			}
		}
		if s.opts.StrictCapacity {
			limit := target.MaxStudents
			if patch.MaxStudents != nil {
				limit = *patch.MaxStudents
			}
			if len(patch.SelectedStudents) > limit {
				return common.NewValidationError("invalid internship update", map[string]string{"selectedStudents": "selection exceeds capacity"})
			}
		}
	}
	applyInternshipPatch(target, patch)

	if err := s.saveInternships(ctx, next); err != nil {
		return err
	}
	s.internships = next
	return nil
}

// DeleteInternship removes the posting and every application that references
// it in one operation, keeping both sides of the cross-reference in step.
func (s *EngagementStore) DeleteInternship(ctx context.Context, id common.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.internshipIndex(id) == -1 {
		return common.NewError(common.CodeNotFound, "internship not found", nil)
	}

	nextInternships := make([]internship.Internship, 0, len(s.internships)-1)
	for _, existing := range s.internships {
		if existing.ID != id {
			nextInternships = append(nextInternships, existing.Clone())
		}
	}
	nextApplications := make([]application.Application, 0, len(s.applications))
	removed := 0
	for _, existing := range s.applications {
		if existing.InternshipID == id {
			removed++
			continue
		}
		nextApplications = append(nextApplications, existing)
	}

	if err := s.saveInternships(ctx, nextInternships); err != nil {
		return err
	}
	if err := s.saveApplications(ctx, nextApplications); err != nil {
		return err
	}
	s.internships = nextInternships
	s.applications = nextApplications

	s.logger.Info("internship deleted", zap.String("internship_id", id.String()), zap.Int("cascaded_applications", removed))
	return nil
}

// Apply records a student's bid: a pending application plus the student's id
// on the posting's applicant list, written together. The posting must exist.
func (s *EngagementStore) Apply(ctx context.Context, input NewApplicationInput) (*application.Application, error) {
	if input.StudentID == "" {
		return nil, common.NewValidationError("invalid application", map[string]string{"studentId": "studentId is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.internshipIndex(input.InternshipID)
	if index == -1 {
		return nil, common.NewError(common.CodeNotFound, "internship not found", nil)
	}

	if !s.opts.AllowDuplicateApplications {
		for _, existing := range s.applications {
			if existing.InternshipID == input.InternshipID && existing.StudentID == input.StudentID {
				return nil, common.NewError(common.CodeConflict, "already applied", nil)
			}
		}
	}

	created := application.Application{
		ID:           common.NewUUID(),
		InternshipID: input.InternshipID,
		StudentID:    input.StudentID,
		StudentName:  input.StudentName,
		AppliedDate:  s.now().UTC().Format("2006-01-02"),
		Status:       application.StatusPending,
		CoverLetter:  input.CoverLetter,
		Resume:       input.Resume,
	}

	nextApplications := make([]application.Application, 0, len(s.applications)+1)
	nextApplications = append(nextApplications, s.applications...)
	nextApplications = append(nextApplications, created)

	nextInternships := s.cloneInternships()
	if !nextInternships[index].HasApplicant(input.StudentID) {
		nextInternships[index].Applicants = append(nextInternships[index].Applicants, input.StudentID)
	}

	if err := s.saveApplications(ctx, nextApplications); err != nil {
		return nil, err
	}
	if err := s.saveInternships(ctx, nextInternships); err != nil {
		return nil, err
	}
	s.applications = nextApplications
	s.internships = nextInternships

	s.logger.Info("application submitted",
		zap.String("application_id", created.ID.String()),
		zap.String("internship_id", input.InternshipID.String()),
		zap.String("student_id", input.StudentID.String()))
	result := created
	return &result, nil
}

// UpdateApplicationStatus sets the status unconditionally; there is no
// transition graph, so pending may jump straight to accepted and final
// statuses may be reverted. Accepting never promotes the student into the
// posting's selection; that is a separate action.
func (s *EngagementStore) UpdateApplicationStatus(ctx context.Context, applicationID common.UUID, status application.Status) error {
	if !status.Valid() {
		return common.NewValidationError("invalid application status", map[string]string{"status": "status must be pending, interview, accepted, or rejected"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, existing := range s.applications {
		if existing.ID == applicationID {
			index = i
			break
		}
	}
	if index == -1 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}

	next := make([]application.Application, len(s.applications))
	copy(next, s.applications)
	next[index].Status = status

	if err := s.saveApplications(ctx, next); err != nil {
		return err
	}
	s.applications = next
	return nil
}

// SelectStudent promotes an applicant into the posting's selection. The
// student must already be an applicant. Already-selected students are a
// no-op. With StrictCapacity the selection may not exceed MaxStudents.
func (s *EngagementStore) SelectStudent(ctx context.Context, internshipID, studentID common.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.internshipIndex(internshipID)
	if index == -1 {
		return common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	target := s.internships[index]
	if !target.HasApplicant(studentID) {
		return common.NewValidationError("invalid selection", map[string]string{"studentId": "student has not applied"})
	}
	if target.HasSelected(studentID) {
		return nil
	}
	if s.opts.StrictCapacity && len(target.SelectedStudents) >= target.MaxStudents {
		return common.NewValidationError("invalid selection", map[string]string{"studentId": "selection is at capacity"})
	}

	next := s.cloneInternships()
	next[index].SelectedStudents = append(next[index].SelectedStudents, studentID)

	if err := s.saveInternships(ctx, next); err != nil {
		return err
	}
	s.internships = next
	return nil
}

// UnselectStudent removes a student from the selection. Removing a student
// who is not selected is a no-op.
func (s *EngagementStore) UnselectStudent(ctx context.Context, internshipID, studentID common.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.internshipIndex(internshipID)
	if index == -1 {
		return common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	if !s.internships[index].HasSelected(studentID) {
		return nil
	}

	next := s.cloneInternships()
	selected := next[index].SelectedStudents[:0]
	for _, id := range next[index].SelectedStudents {
		if id != studentID {
			selected = append(selected, id)
		}
	}
	next[index].SelectedStudents = selected

	if err := s.saveInternships(ctx, next); err != nil {
		return err
	}
	s.internships = next
	return nil
}

// Internships returns a copy of the posting collection in insertion order.
func (s *EngagementStore) Internships() []internship.Internship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneInternships()
}

func (s *EngagementStore) InternshipByID(id common.UUID) (*internship.Internship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := s.internshipIndex(id)
	if index == -1 {
		return nil, common.NewError(common.CodeNotFound, "internship not found", nil)
	}
	found := s.internships[index].Clone()
	return &found, nil
}

// Applications returns a copy of the application collection in insertion order.
func (s *EngagementStore) Applications() []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]application.Application(nil), s.applications...)
}

func (s *EngagementStore) ApplicationByID(id common.UUID) (*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.applications {
		if existing.ID == id {
			found := existing
			return &found, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

// InternshipsByMentor filters the live collection; never cached.
func (s *EngagementStore) InternshipsByMentor(mentorID common.UUID) []internship.Internship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]internship.Internship, 0)
	for _, existing := range s.internships {
		if existing.MentorID == mentorID {
			result = append(result, existing.Clone())
		}
	}
	return result
}

// ApplicationsByStudent filters the live collection; never cached.
func (s *EngagementStore) ApplicationsByStudent(studentID common.UUID) []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]application.Application, 0)
	for _, existing := range s.applications {
		if existing.StudentID == studentID {
			result = append(result, existing)
		}
	}
	return result
}

// ApplicationsByInternship filters the live collection; never cached.
func (s *EngagementStore) ApplicationsByInternship(internshipID common.UUID) []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]application.Application, 0)
	for _, existing := range s.applications {
		if existing.InternshipID == internshipID {
			result = append(result, existing)
		}
	}
	return result
}

func (s *EngagementStore) internshipIndex(id common.UUID) int {
	for i, existing := range s.internships {
		if existing.ID == id {
			return i
		}
	}
	return -1
}

func (s *EngagementStore) cloneInternships() []internship.Internship {
	next := make([]internship.Internship, len(s.internships))
	for i, existing := range s.internships {
		next[i] = existing.Clone()
	}
	return next
}

func (s *EngagementStore) saveInternships(ctx context.Context, internships []internship.Internship) error {
	raw, err := json.Marshal(internships)
	if err != nil {
		return fmt.Errorf("encode internships: %w", err)
	}
	if err := s.adapter.Save(ctx, storage.KeyInternships, raw); err != nil {
		return fmt.Errorf("persist internships: %w", err)
	}
	return nil
}

func (s *EngagementStore) saveApplications(ctx context.Context, applications []application.Application) error {
	raw, err := json.Marshal(applications)
	if err != nil {
		return fmt.Errorf("encode applications: %w", err)
	}
	if err := s.adapter.Save(ctx, storage.KeyApplications, raw); err != nil {
		return fmt.Errorf("persist applications: %w", err)
	}
	return nil
}

func validateNewInternship(input NewInternshipInput) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(input.Company) == "" {
		fields["company"] = "company is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "description is required"
	}
	if !input.Type.Valid() {
		fields["type"] = "type must be remote, onsite, or hybrid"
	}
	if input.MentorID == "" {
		fields["mentorId"] = "mentorId is required"
	}
	if input.MaxStudents < 0 {
		fields["maxStudents"] = "maxStudents must be positive"
	}
	return fields
}

func applyInternshipPatch(target *internship.Internship, patch InternshipPatch) {
	if patch.Title != nil {
		target.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Company != nil {
		target.Company = strings.TrimSpace(*patch.Company)
	}
	if patch.Description != nil {
		target.Description = *patch.Description
	}
	if patch.Requirements != nil {
		target.Requirements = append([]string(nil), patch.Requirements...)
	}
	if patch.Duration != nil {
		target.Duration = *patch.Duration
	}
	if patch.Location != nil {
		target.Location = *patch.Location
	}
	if patch.Type != nil {
		target.Type = *patch.Type
	}
	if patch.Deadline != nil {
		target.Deadline = *patch.Deadline
	}
	if patch.Status != nil {
		target.Status = *patch.Status
	}
	if patch.MaxStudents != nil {
		target.MaxStudents = *patch.MaxStudents
	}
	if patch.Tags != nil {
		target.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.Salary != nil {
		target.Salary = *patch.Salary
	}
	if patch.SelectedStudents != nil {
		target.SelectedStudents = append([]common.UUID(nil), patch.SelectedStudents...)
	}
}
