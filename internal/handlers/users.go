package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/utils"
)

// UserHandler handles user directory requests.
type UserHandler struct {
	DB    *gorm.DB
	Users *repository.UserRepo
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db, Users: repository.NewUserRepo(db)}
}

// GetDoctors returns the doctor directory, optionally filtered by the
// specialization query parameter.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	doctors, err := h.Users.ListDoctors(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(doctors))
	for i := range doctors {
		sanitized = append(sanitized, doctors[i].Sanitize())
	}
	utils.Success(c, "Doctors fetched successfully", sanitized)
}
