package faculty

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// CreateRequest is the body for POST /faculty.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// Handler handles faculty HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a faculty handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /faculty (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	f := &models.Faculty{
		Name:        req.Name,
		Email:       req.Email,
		Department:  req.Department,
		Designation: req.Designation,
	}
	if err := h.repo.Create(c.Request.Context(), f); err != nil {
		response.Conflict(c, "faculty email already exists")
		return
	}
	response.Created(c, f)
}

// GetByID handles GET /faculty/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid faculty id")
		return
	}
	f, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "faculty not found")
		return
	}
	response.OK(c, f)
}

// List handles GET /faculty. Query ?department=CS filters by department.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.Internal(c, "failed to list faculty")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /faculty/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid faculty id")
		return
	}
	existing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "faculty not found")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Department  *string `json:"department"`
		Designation *string `json:"designation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	name, dept, desig := existing.Name, existing.Department, existing.Designation
	if req.Name != nil {
		name = *req.Name
	}
	if req.Department != nil {
		dept = *req.Department
	}
	if req.Designation != nil {
		desig = *req.Designation
	}
	if err := h.repo.Update(c.Request.Context(), id, name, dept, desig); err != nil {
		response.Internal(c, "failed to update faculty")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), id)
	response.OK(c, updated)
}

// Delete handles DELETE /faculty/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid faculty id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete faculty")
		return
	}
	response.NoContent(c)
}
