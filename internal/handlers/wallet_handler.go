package handlers

import (
	"shelterfund/internal/services"
	"shelterfund/internal/utils"
	"shelterfund/internal/validators"
	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletService services.WalletService
	logger        *logger.Logger
}

func NewWalletHandler(walletService services.WalletService, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetWallet returns the balance and the most recent ledger entries.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Wallet retrieved", wallet)
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var request validators.DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if err := validators.Validate(&request); err != nil {
		respondError(c, h.logger, err)
		return
	}

	receipt, err := h.walletService.Deposit(c.Request.Context(), userID, request.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Deposit completed", receipt)
}
