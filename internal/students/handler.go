package students

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// CreateRequest is the body for POST /students.
type CreateRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Email              string `json:"email"`
	Branch             string `json:"branch" binding:"required"`
	Semester           int    `json:"semester" binding:"required,min=1,max=8"`
}

// Handler handles student HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a student handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /students (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s := &models.Student{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Email:              req.Email,
		Branch:             req.Branch,
		Semester:           req.Semester,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		response.Conflict(c, "registration number already exists")
		return
	}
	response.Created(c, s)
}

// GetByID handles GET /students/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "student not found")
		return
	}
	response.OK(c, s)
}

// List handles GET /students. Query ?branch=CS&semester=6 filters the roster.
func (h *Handler) List(c *gin.Context) {
	branch := c.Query("branch")
	semester := 0
	if v := c.Query("semester"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "invalid semester")
			return
		}
		semester = n
	}
	list, err := h.repo.List(c.Request.Context(), branch, semester)
	if err != nil {
		response.Internal(c, "failed to list students")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /students/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}
	existing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "student not found")
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Branch   *string `json:"branch"`
		Semester *int    `json:"semester"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	name, email, branch, semester := existing.Name, existing.Email, existing.Branch, existing.Semester
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Branch != nil {
		branch = *req.Branch
	}
	if req.Semester != nil {
		semester = *req.Semester
	}
	if err := h.repo.Update(c.Request.Context(), id, name, email, branch, semester); err != nil {
		response.Internal(c, "failed to update student")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), id)
	response.OK(c, updated)
}

// Delete handles DELETE /students/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete student")
		return
	}
	response.NoContent(c)
}
