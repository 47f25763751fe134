package attendance

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/middleware"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/models"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/internal/qrsession"
	"github.com/Bonthujayaram/Smart-Campus-Assistant-sub000/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	FinalizeBatch(ctx context.Context, batch Batch, markedBy *uuid.UUID) error
	Exists(ctx context.Context, subject, date, classType string) (bool, error)
	ListByDateSubject(ctx context.Context, date, subject string) ([]RecordRow, error)
	StudentSummary(ctx context.Context, studentID int64, subject string) ([]models.AttendanceRecord, error)
}

// StudentDirectory resolves scanning students against the roster.
type StudentDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// Broadcaster pushes scan events to connected faculty clients.
type Broadcaster interface {
	BroadcastCampusEvent(kind string, payload interface{})
}

// Handler handles the attendance HTTP endpoints.
type Handler struct {
	store    Store
	students StudentDirectory
	book     *ScanBook
	hub      Broadcaster
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates an attendance handler.
func NewHandler(store Store, students StudentDirectory, book *ScanBook, hub Broadcaster, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		students: students,
		book:     book,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitScan handles POST /attendance/qr-scans: a decoded session payload
// augmented with the scanning student's ID. Validation mirrors the
// client-side decoder, so a stale or tampered payload that slipped past a
// client is still rejected here.
func (h *Handler) SubmitScan(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, qrsession.ErrInvalidFormat.Error())
		return
	}

	payload, err := qrsession.DecodeAndValidate(raw, h.now())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var identity struct {
		StudentID *int64 `json:"studentId"`
	}
	if err := json.Unmarshal(raw, &identity); err != nil || identity.StudentID == nil {
		response.BadRequest(c, "missing studentId")
		return
	}

	student, err := h.students.GetByID(c.Request.Context(), *identity.StudentID)
	if err != nil {
		response.NotFound(c, "student not found")
		return
	}
	if student.Branch != payload.Branch || student.Semester != payload.Semester {
		response.BadRequest(c, "student is not enrolled in this class")
		return
	}

	ev := models.ScanEvent{
		StudentID:          student.ID,
		Name:               student.Name,
		RegistrationNumber: student.RegistrationNumber,
		Subject:            payload.Subject,
		Date:               payload.Date,
		ClassType:          payload.Type,
	}
	key := SessionKey{Subject: payload.Subject, Date: payload.Date, ClassType: payload.Type}

	newScans := []models.ScanEvent{}
	if h.book.Record(key, ev) {
		newScans = append(newScans, ev)
		if h.hub != nil {
			h.hub.BroadcastCampusEvent("attendance_scan", ev)
		}
		h.logger.Info("scan accepted",
			zap.Int64("student_id", student.ID),
			zap.String("subject", payload.Subject),
			zap.String("date", payload.Date))
	}

	response.OK(c, gin.H{"newScans": newScans})
}

// Finalize handles POST /attendance/finalize: the single authoritative
// batch write for one class occurrence. All rows or none.
func (h *Handler) Finalize(c *gin.Context) {
	var batch Batch
	if err := c.ShouldBindJSON(&batch); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if batch.Subject == "" || batch.Date == "" || batch.ClassType == "" {
		response.BadRequest(c, "subject, date and classType are required")
		return
	}
	for _, rec := range batch.Records {
		if rec.Status != "present" && rec.Status != "absent" {
			response.BadRequest(c, "status must be present or absent")
			return
		}
	}

	var markedBy *uuid.UUID
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			markedBy = &id
		}
	}

	if err := h.store.FinalizeBatch(c.Request.Context(), batch, markedBy); err != nil {
		h.logger.Error("finalize failed",
			zap.String("subject", batch.Subject),
			zap.String("date", batch.Date),
			zap.Error(err))
		response.Internal(c, "failed to finalize attendance")
		return
	}

	h.book.Clear(SessionKey{Subject: batch.Subject, Date: batch.Date, ClassType: batch.ClassType})
	response.OK(c, gin.H{"finalized": true, "records": len(batch.Records)})
}

// Check handles GET /attendance/check?date&subject&type. A repository
// failure degrades to exists:false with a warning; the caller treats it as
// "not taken yet" rather than an error.
func (h *Handler) Check(c *gin.Context) {
	date := c.Query("date")
	subject := c.Query("subject")
	classType := c.Query("type")
	if date == "" || subject == "" || classType == "" {
		response.BadRequest(c, "date, subject and type are required")
		return
	}

	exists, err := h.store.Exists(c.Request.Context(), subject, date, classType)
	if err != nil {
		h.logger.Warn("attendance check failed", zap.Error(err))
		response.OK(c, gin.H{"exists": false})
		return
	}
	response.OK(c, gin.H{"exists": exists})
}

// ListByDateSubject handles GET /attendance/by-date-subject?date&subject,
// used to rehydrate a roster when editing an already-finalized session.
func (h *Handler) ListByDateSubject(c *gin.Context) {
	date := c.Query("date")
	subject := c.Query("subject")
	if date == "" || subject == "" {
		response.BadRequest(c, "date and subject are required")
		return
	}

	list, err := h.store.ListByDateSubject(c.Request.Context(), date, subject)
	if err != nil {
		response.Internal(c, "failed to fetch attendance records")
		return
	}
	if list == nil {
		list = []RecordRow{}
	}
	response.OK(c, list)
}

// SessionQR handles GET /attendance/sessions/qr.png (faculty): encodes a
// fresh session payload for the class in the query and streams the PNG.
// Each request yields a new session ID, so a re-render is a new code.
func (h *Handler) SessionQR(c *gin.Context) {
	semester, err := strconv.Atoi(c.DefaultQuery("semester", "0"))
	if err != nil {
		response.BadRequest(c, "invalid semester")
		return
	}
	class := qrsession.ClassInfo{
		Subject:  c.Query("subject"),
		Branch:   c.Query("branch"),
		Semester: semester,
		Date:     c.DefaultQuery("date", h.now().Format("2006-01-02")),
		Type:     c.DefaultQuery("type", "Lecture"),
	}
	if class.Subject == "" || class.Branch == "" || class.Semester == 0 {
		response.BadRequest(c, "subject, branch and semester are required")
		return
	}

	png, err := qrsession.NewPayload(class, h.now()).PNG(512)
	if err != nil {
		response.Internal(c, "failed to render QR code")
		return
	}
	c.Data(200, "image/png", png)
}

// StudentSummary handles GET /attendance/student/:id?subject for the
// student dashboard.
func (h *Handler) StudentSummary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return
	}

	list, err := h.store.StudentSummary(c.Request.Context(), id, c.Query("subject"))
	if err != nil {
		response.Internal(c, "failed to fetch attendance summary")
		return
	}
	if list == nil {
		list = []models.AttendanceRecord{}
	}
	response.OK(c, gin.H{"records": list})
}
