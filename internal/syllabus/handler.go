package syllabus

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/middleware"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// CreateRequest is the body for POST /syllabus.
type CreateRequest struct {
	Branch   string `json:"branch" binding:"required"`
	Semester int    `json:"semester" binding:"required,min=1,max=8"`
	Subject  string `json:"subject" binding:"required"`
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
}

// Handler handles syllabus HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a syllabus handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /syllabus (faculty only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	e := &models.SyllabusEntry{
		Branch:     req.Branch,
		Semester:   req.Semester,
		Subject:    req.Subject,
		Title:      req.Title,
		URL:        req.URL,
		UploadedBy: &userID,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		response.Internal(c, "failed to create syllabus entry")
		return
	}
	response.Created(c, e)
}

// List handles GET /syllabus?branch=CS&semester=6.
func (h *Handler) List(c *gin.Context) {
	branch := c.Query("branch")
	semester, err := strconv.Atoi(c.Query("semester"))
	if branch == "" || err != nil {
		response.BadRequest(c, "branch and semester are required")
		return
	}
	list, err := h.repo.ListForCohort(c.Request.Context(), branch, semester)
	if err != nil {
		response.Internal(c, "failed to list syllabus")
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /syllabus/:id (faculty only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid syllabus id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete syllabus entry")
		return
	}
	response.NoContent(c)
}
