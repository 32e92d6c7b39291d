package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/service"
)

type ContestantHandler struct {
	registrationService *service.RegistrationService
}

func NewContestantHandler(registrationService *service.RegistrationService) *ContestantHandler {
	return &ContestantHandler{
		registrationService: registrationService,
	}
}

// RegisterContestantRequest is the registration payload
type RegisterContestantRequest struct {
	Username string `json:"username" binding:"required,notblank" example:"alice"`
	Phone    string `json:"phone" binding:"required,notblank" example:"555-0100"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

// Register godoc
// @Summary Register a contestant
// @Tags contestants
// @Accept json
// @Produce json
// @Param request body RegisterContestantRequest true "Registration request"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contestants/register [post]
func (h *ContestantHandler) Register(c *gin.Context) {
	var req RegisterContestantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("All fields are required")))
		return
	}

	err := h.registrationService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "Registration successful"})
}
