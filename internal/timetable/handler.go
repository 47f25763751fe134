package timetable

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// CreateRequest is the body for POST /timetable.
type CreateRequest struct {
	Branch      string `json:"branch" binding:"required"`
	Semester    int    `json:"semester" binding:"required,min=1,max=8"`
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	ClassType   string `json:"class_type"`
	Room        string `json:"room"`
	FacultyName string `json:"faculty_name"`
}

// Handler handles timetable HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a timetable handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /timetable (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	classType := req.ClassType
	if classType == "" {
		classType = "Lecture"
	}
	s := &models.TimetableSlot{
		Branch:      req.Branch,
		Semester:    req.Semester,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Subject:     req.Subject,
		ClassType:   classType,
		Room:        req.Room,
		FacultyName: req.FacultyName,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		response.Internal(c, "failed to create timetable slot")
		return
	}
	response.Created(c, s)
}

// List handles GET /timetable?branch=CS&semester=6.
func (h *Handler) List(c *gin.Context) {
	branch := c.Query("branch")
	semester, err := strconv.Atoi(c.Query("semester"))
	if branch == "" || err != nil {
		response.BadRequest(c, "branch and semester are required")
		return
	}
	list, err := h.repo.ListForCohort(c.Request.Context(), branch, semester)
	if err != nil {
		response.Internal(c, "failed to list timetable")
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /timetable/:id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid slot id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete timetable slot")
		return
	}
	response.NoContent(c)
}
