package handlers

import (
	"errors"
	"net/http"

	"shelterfund/internal/middleware"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidAmount, http.StatusBadRequest, utils.CodeInvalidAmount},
	{services.ErrDescriptionRequired, http.StatusBadRequest, utils.CodeDescriptionRequired},
	{services.ErrInvalidDonationType, http.StatusBadRequest, utils.CodeInvalidDonationType},
	{services.ErrInvalidQuantity, http.StatusBadRequest, utils.CodeInvalidQuantity},
	{services.ErrInsufficientBalance, http.StatusUnprocessableEntity, utils.CodeInsufficientBalance},
	{services.ErrAlreadyAdopted, http.StatusConflict, utils.CodeAlreadyAdopted},
	{services.ErrPriceNotConfigured, http.StatusUnprocessableEntity, utils.CodePriceNotConfigured},
	{interfaces.ErrBalanceChanged, http.StatusConflict, utils.CodeBalanceChanged},
	{services.ErrUserNotFound, http.StatusNotFound, utils.CodeNotFound},
	{services.ErrAnimalNotFound, http.StatusNotFound, utils.CodeNotFound},
	{services.ErrShelterNotFound, http.StatusNotFound, utils.CodeNotFound},
	{services.ErrEmailTaken, http.StatusConflict, utils.CodeEmailTaken},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, utils.CodeInvalidCredentials},
	{services.ErrInvalidToken, http.StatusUnauthorized, utils.CodeUnauthorized},
	{services.ErrCityRequired, http.StatusBadRequest, utils.CodeBadRequest},
	{services.ErrImageTooLarge, http.StatusRequestEntityTooLarge, utils.CodeImageTooLarge},
	{utils.ErrUnsupportedImage, http.StatusBadRequest, utils.CodeUnsupportedImage},
	{validators.ErrInvalidObjectID, http.StatusBadRequest, utils.CodeBadRequest},
}

const missingIndexMessage = "The animal list needs a composite index on animals (shelter_id, type, name/age). " +
	"Run the server with MONGODB_RUN_MIGRATIONS=true or create the index manually."

// respondError maps a service error to the response envelope. Unknown
// errors are logged and answered with a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verrs validators.ValidationErrors
	if errors.As(err, &verrs) {
		utils.ValidationErrorResponse(c, verrs.Details())
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.ErrorResponse(c, m.status, m.code, err.Error())
			return
		}
	}

	log = log.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath())
	if errors.Is(err, interfaces.ErrMissingIndex) {
		log.Error("Query failed on a missing index")
		utils.ErrorResponse(c, http.StatusInternalServerError, utils.CodeMissingIndex, missingIndexMessage)
		return
	}

	log.Error("Request failed")
	utils.InternalServerErrorResponse(c)
}

// requireUser returns the authenticated user id or answers 401.
func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := userIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c)
	}
	return id, ok
}

// pathID parses an ObjectID path parameter or answers 400.
func pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := validators.ParseObjectID(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

func userIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	return middleware.GetUserID(c)
}
