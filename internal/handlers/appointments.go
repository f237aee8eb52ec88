package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/services"
	"clinic-app-server/internal/utils"
)

// AppointmentHandler handles appointment and availability requests.
type AppointmentHandler struct {
	Booking *services.BookingService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(booking *services.BookingService) *AppointmentHandler {
	return &AppointmentHandler{Booking: booking}
}

// GetAvailability returns a doctor's free slots for the requested date.
func (h *AppointmentHandler) GetAvailability(c *gin.Context) {
	doctorID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		utils.BadRequest(c, "date query parameter is required")
		return
	}

	slots, err := h.Booking.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Available slots fetched successfully", gin.H{
		"doctorId":       doctorID,
		"date":           date,
		"availableSlots": slots,
	})
}

// SetAvailabilityRequest represents the request body for publishing a
// doctor's offered slots for one day.
type SetAvailabilityRequest struct {
	Date        string   `json:"date" binding:"required"`
	TimeSlots   []string `json:"timeSlots" binding:"required"`
	IsAvailable bool     `json:"isAvailable"`
}

// SetAvailability replaces the calling doctor's availability entry for a day.
func (h *AppointmentHandler) SetAvailability(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SetAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Booking.SetAvailability(c.Request.Context(), doctorID, req.Date, req.TimeSlots, req.IsAvailable); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Availability saved successfully", nil)
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"timeSlot" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// CreateAppointment books a slot for the calling patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.Booking.Create(c.Request.Context(), patientID, req.DoctorID, req.Date, req.TimeSlot, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appt)
}

// GetMyAppointments returns the caller's appointments, cancelled ones
// excluded.
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	appts, err := h.Booking.ListMine(c.Request.Context(), userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// CancelAppointment soft-cancels an appointment owned by the caller.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	if err := h.Booking.Cancel(c.Request.Context(), c.Param("id"), userID, role); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", nil)
}

// statusUpdateBody is the optional JSON body of a status update; the status
// query parameter takes precedence when both are present.
type statusUpdateBody struct {
	Status string `json:"status"`
}

// UpdateAppointmentStatus applies a doctor-driven status transition. The
// new status is read from the status query parameter first, with a JSON
// body field as fallback.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	status := c.Query("status")
	if status == "" {
		var body statusUpdateBody
		// Body is optional; a missing or malformed one just leaves the
		// status empty for the service to reject.
		_ = c.ShouldBindJSON(&body)
		status = body.Status
	}

	appt, err := h.Booking.UpdateStatus(c.Request.Context(), c.Param("id"), doctorID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, "Status updated successfully", appt)
}
