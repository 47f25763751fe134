package assignments

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/middleware"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/storage"
)

// CreateRequest is the body for POST /assignments.
type CreateRequest struct {
	Subject     string  `json:"subject" binding:"required"`
	Branch      string  `json:"branch" binding:"required"`
	Semester    int     `json:"semester" binding:"required,min=1,max=8"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

// SubmitRequest is the body for POST /assignments/:id/submissions/presign.
type SubmitRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	FileName  string `json:"file_name" binding:"required"`
	FileSize  int64  `json:"file_size"`
}

// EvaluateRequest is the body for POST /assignments/submissions/:id/evaluate.
type EvaluateRequest struct {
	Marks    int    `json:"marks" binding:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

// Handler handles assignment HTTP endpoints. Submission files live in S3;
// uploads go direct from the client via pre-signed URLs.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an assignment handler. s3 may be nil when the storage
// backend is not configured; submission endpoints then return 503.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// Create handles POST /assignments (faculty only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var due *time.Time
	if req.DueDate != nil {
		t, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.BadRequest(c, "invalid due_date")
			return
		}
		due = &t
	}
	a := &models.Assignment{
		Subject:     req.Subject,
		Branch:      req.Branch,
		Semester:    req.Semester,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		CreatedBy:   &userID,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		response.Internal(c, "failed to create assignment")
		return
	}
	response.Created(c, a)
}

// List handles GET /assignments?branch=CS&semester=6.
func (h *Handler) List(c *gin.Context) {
	semester := 0
	if v := c.Query("semester"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "invalid semester")
			return
		}
		semester = n
	}
	list, err := h.repo.List(c.Request.Context(), c.Query("branch"), semester)
	if err != nil {
		response.Internal(c, "failed to list assignments")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /assignments/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "assignment not found")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /assignments/:id (faculty only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete assignment")
		return
	}
	response.NoContent(c)
}

// PresignSubmission handles POST /assignments/:id/submissions/presign. It
// validates the file, records the submission row, and returns a pre-signed
// PUT URL the client uploads to directly.
func (h *Handler) PresignSubmission(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "file storage not configured")
		return
	}
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.FileSize > storage.MaxSubmissionFileSize {
		response.BadRequest(c, "file too large (max 20MB)")
		return
	}
	contentType := storage.ContentTypeForFilename(req.FileName)
	if !storage.ValidateSubmissionFileType(contentType, req.FileName) {
		response.BadRequest(c, "file type not allowed")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), assignmentID); err != nil {
		response.NotFound(c, "assignment not found")
		return
	}

	key := storage.SubmissionKey(assignmentID.String(), strconv.FormatInt(req.StudentID, 10), req.FileName)
	url, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to generate upload URL")
		return
	}

	sub := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    req.StudentID,
		S3Key:        key,
		FileName:     req.FileName,
		ContentType:  contentType,
	}
	if err := h.repo.UpsertSubmission(c.Request.Context(), sub); err != nil {
		response.Internal(c, "failed to record submission")
		return
	}
	response.Created(c, gin.H{
		"submission": sub,
		"upload_url": url,
		"expires_in": int(h.s3.PresignExpire().Seconds()),
	})
}

// ListSubmissions handles GET /assignments/:id/submissions (faculty only).
func (h *Handler) ListSubmissions(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	list, err := h.repo.ListSubmissions(c.Request.Context(), assignmentID)
	if err != nil {
		response.Internal(c, "failed to list submissions")
		return
	}
	response.OK(c, list)
}

// SubmissionDownloadURL handles GET /assignments/submissions/:id/download (faculty only).
func (h *Handler) SubmissionDownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "file storage not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	sub, err := h.repo.GetSubmission(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "submission not found")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), sub.S3Key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign download failed", zap.Error(err), zap.String("key", sub.S3Key))
		response.Internal(c, "failed to generate download URL")
		return
	}
	response.OK(c, gin.H{"download_url": url, "file_name": sub.FileName})
}

// Evaluate handles POST /assignments/submissions/:id/evaluate (faculty only).
func (h *Handler) Evaluate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetSubmission(c.Request.Context(), id); err != nil {
		response.NotFound(c, "submission not found")
		return
	}
	if err := h.repo.Evaluate(c.Request.Context(), id, req.Marks, req.Feedback); err != nil {
		response.Internal(c, "failed to evaluate submission")
		return
	}
	updated, _ := h.repo.GetSubmission(c.Request.Context(), id)
	response.OK(c, updated)
}
