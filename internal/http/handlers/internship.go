package handlers

import (
	"context"
	"net/http"

	"internhub/internal/common"
	"internhub/internal/domain/internship"
	"internhub/internal/domain/user"
	"internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/store"
)

type InternshipHandler struct {
	engagements *store.EngagementStore
	identity    *store.IdentityStore
}

func NewInternshipHandler(engagements *store.EngagementStore, identity *store.IdentityStore) *InternshipHandler {
	return &InternshipHandler{engagements: engagements, identity: identity}
}

type internshipResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Duration         string   `json:"duration"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	MentorID         string   `json:"mentor_id"`
	MentorName       string   `json:"mentor_name"`
	PostedDate       string   `json:"posted_date"`
	Deadline         string   `json:"deadline"`
	Status           string   `json:"status"`
	Applicants       []string `json:"applicants"`
	SelectedStudents []string `json:"selected_students"`
	MaxStudents      int      `json:"max_students"`
	Tags             []string `json:"tags,omitempty"`
	Salary           string   `json:"salary,omitempty"`
}

func toInternshipResponse(posting internship.Internship) internshipResponse {
	return internshipResponse{
		ID:               posting.ID.String(),
		Title:            posting.Title,
		Company:          posting.Company,
		Description:      posting.Description,
		Requirements:     posting.Requirements,
		Duration:         posting.Duration,
		Location:         posting.Location,
		Type:             string(posting.Type),
		MentorID:         posting.MentorID.String(),
		MentorName:       posting.MentorName,
		PostedDate:       posting.PostedDate,
		Deadline:         posting.Deadline,
		Status:           string(posting.Status),
		Applicants:       uuidStrings(posting.Applicants),
		SelectedStudents: uuidStrings(posting.SelectedStudents),
		MaxStudents:      posting.MaxStudents,
		Tags:             posting.Tags,
		Salary:           posting.Salary,
	}
}

func uuidStrings(ids []common.UUID) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.String())
	}
	return result
}

type internshipRequest struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Duration     string   `json:"duration"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Deadline     string   `json:"deadline"`
	Status       string   `json:"status"`
	MaxStudents  int      `json:"max_students"`
	Tags         []string `json:"tags"`
	Salary       string   `json:"salary"`
}

type internshipPatchRequest struct {
	Title            *string  `json:"title"`
	Company          *string  `json:"company"`
	Description      *string  `json:"description"`
	Requirements     []string `json:"requirements"`
	Duration         *string  `json:"duration"`
	Location         *string  `json:"location"`
	Type             *string  `json:"type"`
	Deadline         *string  `json:"deadline"`
	Status           *string  `json:"status"`
	MaxStudents      *int     `json:"max_students"`
	Tags             []string `json:"tags"`
	Salary           *string  `json:"salary"`
	SelectedStudents []string `json:"selected_students"`
}

type selectionRequest struct {
	StudentID string `json:"student_id"`
}

func (h *InternshipHandler) List(w http.ResponseWriter, r *http.Request) {
	postings := h.engagements.Internships()
	result := make([]internshipResponse, 0, len(postings))
	for _, posting := range postings {
		result = append(result, toInternshipResponse(posting))
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *InternshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	internshipID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	posting, err := h.engagements.InternshipByID(internshipID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toInternshipResponse(*posting))
}

// Create posts an internship owned by the authenticated mentor. The mentor
// name snapshot is taken here, at posting time.
func (h *InternshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	mentorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	mentor, err := h.identity.UserByID(mentorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req internshipRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.engagements.AddInternship(r.Context(), store.NewInternshipInput{
		Title:        req.Title,
		Company:      req.Company,
		Description:  req.Description,
		Requirements: req.Requirements,
		Duration:     req.Duration,
		Location:     req.Location,
		Type:         internship.LocationType(req.Type),
		MentorID:     mentorID,
		MentorName:   mentor.Name,
		Deadline:     req.Deadline,
		Status:       internship.Status(req.Status),
		MaxStudents:  req.MaxStudents,
		Tags:         req.Tags,
		Salary:       req.Salary,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, toInternshipResponse(*created))
}

func (h *InternshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	internshipID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.requireOwner(r, internshipID); err != nil {
		response.Error(w, err)
		return
	}
	var req internshipPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	patch := store.InternshipPatch{
		Title:        req.Title,
		Company:      req.Company,
		Description:  req.Description,
		Requirements: req.Requirements,
		Duration:     req.Duration,
		Location:     req.Location,
		Deadline:     req.Deadline,
		MaxStudents:  req.MaxStudents,
		Tags:         req.Tags,
		Salary:       req.Salary,
	}
	if req.Type != nil {
		locationType := internship.LocationType(*req.Type)
		patch.Type = &locationType
	}
	if req.Status != nil {
		status := internship.Status(*req.Status)
		patch.Status = &status
	}
	if req.SelectedStudents != nil {
		selected := make([]common.UUID, 0, len(req.SelectedStudents))
		for _, id := range req.SelectedStudents {
			selected = append(selected, common.UUID(id))
		}
		patch.SelectedStudents = selected
	}
	if err := h.engagements.UpdateInternship(r.Context(), internshipID, patch); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.engagements.InternshipByID(internshipID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toInternshipResponse(*updated))
}

// Delete removes the posting and cascades to its applications.
func (h *InternshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	internshipID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.requireOwner(r, internshipID); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.engagements.DeleteInternship(r.Context(), internshipID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InternshipHandler) ListByMentor(w http.ResponseWriter, r *http.Request) {
	mentorID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	postings := h.engagements.InternshipsByMentor(mentorID)
	result := make([]internshipResponse, 0, len(postings))
	for _, posting := range postings {
		result = append(result, toInternshipResponse(posting))
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *InternshipHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, h.engagements.SelectStudent)
}

func (h *InternshipHandler) Unselect(w http.ResponseWriter, r *http.Request) {
	h.changeSelection(w, r, h.engagements.UnselectStudent)
}

func (h *InternshipHandler) changeSelection(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, internshipID, studentID common.UUID) error) {
	internshipID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.requireOwner(r, internshipID); err != nil {
		response.Error(w, err)
		return
	}
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	studentID, err := common.ParseUUID(req.StudentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := op(r.Context(), internshipID, studentID); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.engagements.InternshipByID(internshipID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toInternshipResponse(*updated))
}

// requireOwner allows the posting's mentor or an admin.
func (h *InternshipHandler) requireOwner(r *http.Request, internshipID common.UUID) error {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return errUnauthorized()
	}
	role, _ := middleware.RoleFromContext(r.Context())
	if role == user.RoleAdmin {
		return nil
	}
	posting, err := h.engagements.InternshipByID(internshipID)
	if err != nil {
		return err
	}
	if posting.MentorID != actorID {
		return common.NewError(common.CodeForbidden, "internship belongs to another mentor", nil)
	}
	return nil
}
