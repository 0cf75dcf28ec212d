package handlers

import (
	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationService services.DonationService
	adoptionService services.AdoptionService
	logger          *logger.Logger
}

func NewDonationHandler(donationService services.DonationService, adoptionService services.AdoptionService, logger *logger.Logger) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		adoptionService: adoptionService,
		logger:          logger,
	}
}

// Donate pays for a donation to the animal from the caller's wallet.
func (h *DonationHandler) Donate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	animalID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request validators.DonationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if err := validators.Validate(&request); err != nil {
		respondError(c, h.logger, err)
		return
	}

	receipt, err := h.donationService.Donate(c.Request.Context(), userID, &services.DonationRequest{
		AnimalID:     animalID,
		DonationType: request.DonationType,
		Quantity:     request.Quantity,
		Amount:       request.Amount,
		Description:  request.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Donation completed", receipt)
}

func (h *DonationHandler) ListCatalog(c *gin.Context) {
	catalog, err := h.donationService.ListCatalog(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Donation catalog retrieved", catalog)
}

func (h *DonationHandler) ListMyDonations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	donations, err := h.donationService.ListMyDonations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Donations retrieved", donations, len(donations))
}

func (h *DonationHandler) Adopt(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	animalID, ok := pathID(c, "id")
	if !ok {
		return
	}

	adoption, err := h.adoptionService.Adopt(c.Request.Context(), userID, animalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Virtual adoption created", adoption)
}

func (h *DonationHandler) ListMyAdoptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	adoptions, err := h.adoptionService.ListMyAdoptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.ListResponse(c, "Adoptions retrieved", adoptions, len(adoptions))
}
