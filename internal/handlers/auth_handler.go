package handlers

import (
	"shelterfund/internal/services"
	"shelterfund/internal/session"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthHandler struct {
	authService services.AuthService
	sessions    *session.Registry
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, sessions *session.Registry, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Registration successful", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

// GetSession resolves which navigator the client should show. The token is
// optional: without one the client lands on the auth navigator.
func (h *AuthHandler) GetSession(c *gin.Context) {
	var userID *primitive.ObjectID
	if id, ok := userIDFromContext(c); ok {
		userID = &id
	}

	snapshot, err := h.sessions.Resolve(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, "Session resolved", snapshot)
}
