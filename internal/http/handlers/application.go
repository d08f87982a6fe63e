package handlers

import (
	"net/http"
	"time"

	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/domain/user"
	"internhub/internal/http/middleware"
	"internhub/internal/http/response"
	"internhub/internal/store"
)

type ApplicationHandler struct {
	engagements *store.EngagementStore
	identity    *store.IdentityStore
	limiter     middleware.Limiter
}

func NewApplicationHandler(engagements *store.EngagementStore, identity *store.IdentityStore, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{engagements: engagements, identity: identity, limiter: limiter}
}

type applicationResponse struct {
	ID           string `json:"id"`
	InternshipID string `json:"internship_id"`
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	AppliedDate  string `json:"applied_date"`
	Status       string `json:"status"`
	CoverLetter  string `json:"cover_letter"`
	Resume       string `json:"resume,omitempty"`
}

func toApplicationResponse(bid application.Application) applicationResponse {
	return applicationResponse{
		ID:           bid.ID.String(),
		InternshipID: bid.InternshipID.String(),
		StudentID:    bid.StudentID.String(),
		StudentName:  bid.StudentName,
		AppliedDate:  bid.AppliedDate,
		Status:       string(bid.Status),
		CoverLetter:  bid.CoverLetter,
		Resume:       bid.Resume,
	}
}

type applyRequest struct {
	InternshipID string `json:"internship_id"`
	CoverLetter  string `json:"cover_letter"`
	Resume       string `json:"resume,omitempty"`
}

type applicationStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	bids := h.engagements.Applications()
	result := make([]applicationResponse, 0, len(bids))
	for _, bid := range bids {
		result = append(result, toApplicationResponse(bid))
	}
	response.JSON(w, http.StatusOK, result)
}

// Apply submits the authenticated student's bid. The student name snapshot
// is taken here, at application time.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	internshipID, err := common.ParseUUID(req.InternshipID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + internshipID.String() + ":" + studentID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	student, err := h.identity.UserByID(studentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.engagements.Apply(r.Context(), store.NewApplicationInput{
		InternshipID: internshipID,
		StudentID:    studentID,
		StudentName:  student.Name,
		CoverLetter:  req.CoverLetter,
		Resume:       req.Resume,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, toApplicationResponse(*created))
}

// UpdateStatus sets an application's review status. Allowed for the mentor
// who owns the referenced posting, or an admin.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	bid, err := h.engagements.ApplicationByID(applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.requirePostingOwner(r, bid.InternshipID); err != nil {
		response.Error(w, err)
		return
	}
	var req applicationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.engagements.UpdateApplicationStatus(r.Context(), applicationID, application.Status(req.Status)); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.engagements.ApplicationByID(applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, toApplicationResponse(*updated))
}

func (h *ApplicationHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	bids := h.engagements.ApplicationsByStudent(studentID)
	result := make([]applicationResponse, 0, len(bids))
	for _, bid := range bids {
		result = append(result, toApplicationResponse(bid))
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) ListByInternship(w http.ResponseWriter, r *http.Request) {
	internshipID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	bids := h.engagements.ApplicationsByInternship(internshipID)
	result := make([]applicationResponse, 0, len(bids))
	for _, bid := range bids {
		result = append(result, toApplicationResponse(bid))
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) requirePostingOwner(r *http.Request, internshipID common.UUID) error {
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
		return common.NewError(common.CodeForbidden, "application belongs to another mentor's internship", nil)
	}
	return nil
}
