package handlers

import (
	"errors"
	"net/http"

	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService services.ProfileService
	maxImageSize   int64
	logger         *logger.Logger
}

func NewProfileHandler(profileService services.ProfileService, maxImageSize int64, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxImageSize:   maxImageSize,
		logger:         logger,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile retrieved", profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request validators.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile updated", user)
}

// SelectCity stores the city and returns the new session state.
func (h *ProfileHandler) SelectCity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request validators.SelectCityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	snapshot, err := h.profileService.SelectCity(c.Request.Context(), userID, request.City)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "City selected", snapshot)
}

// UploadAvatar accepts a multipart "image" field.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	// Leave room for the multipart envelope around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageSize+64*1024)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.logger, services.ErrImageTooLarge)
			return
		}
		utils.BadRequestResponse(c, "An image file is required in the \"image\" field")
		return
	}
	if header.Size > h.maxImageSize {
		respondError(c, h.logger, services.ErrImageTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Unable to read the uploaded image")
		return
	}
	defer file.Close()

	user, err := h.profileService.UploadAvatar(c.Request.Context(), userID, file, header.Filename)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile image updated", user)
}

func (h *ProfileHandler) RegisterDeviceToken(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request validators.DeviceTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.profileService.RegisterDeviceToken(c.Request.Context(), userID, request.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Device token registered", nil)
}
