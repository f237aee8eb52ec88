package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/services"
	"clinic-app-server/internal/utils"
)

// DocumentHandler handles clinical report requests.
type DocumentHandler struct {
	Documents *services.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Documents: documents}
}

// formValue reads a multipart form field, falling back to the query string.
func formValue(c *gin.Context, name string) string {
	if v := c.PostForm(name); v != "" {
		return v
	}
	return c.Query(name)
}

// UploadDocument stores a report file for an appointment. A repeated upload
// for the same appointment overwrites the existing report instead of
// creating a second one.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointmentID := formValue(c, "appointment_id")
	if appointmentID == "" {
		utils.BadRequest(c, "appointment_id is required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading file content: "+err.Error())
		return
	}

	doc, created, err := h.Documents.Upsert(c.Request.Context(), services.UpsertDocumentInput{
		AppointmentID: appointmentID,
		DoctorID:      doctorID,
		ExamType:      formValue(c, "exam_type"),
		ExamDate:      formValue(c, "exam_date"),
		Notes:         formValue(c, "notes"),
		Filename:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Data:          data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if created {
		utils.Created(c, "Report uploaded successfully", doc)
		return
	}
	utils.Success(c, "Report updated successfully", doc)
}

// UpdateDocumentNotesRequest represents the request body for a notes-only
// edit.
type UpdateDocumentNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// UpdateDocumentNotes edits the notes of a report owned by the calling
// doctor.
func (h *DocumentHandler) UpdateDocumentNotes(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateDocumentNotesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Documents.UpdateNotes(c.Request.Context(), c.Param("id"), doctorID, req.Notes); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Notes updated successfully", gin.H{"notes": req.Notes})
}

// GetMyDocuments returns the caller's reports.
func (h *DocumentHandler) GetMyDocuments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	docs, err := h.Documents.ListMine(c.Request.Context(), userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Reports fetched successfully", docs)
}

// DownloadDocument streams a report's file content back to the caller.
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	data, filename, contentType, err := h.Documents.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
