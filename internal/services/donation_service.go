package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/utils"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationService interface {
	Donate(ctx context.Context, userID primitive.ObjectID, request *DonationRequest) (*DonationReceipt, error)
	ListMyDonations(ctx context.Context, userID primitive.ObjectID) ([]*models.Donation, error)
	ListCatalog(ctx context.Context) (*DonationCatalog, error)
}

type DonationRequest struct {
	AnimalID     primitive.ObjectID
	DonationType string
	Quantity     int
	Amount       string
	Description  string
}

type DonationReceipt struct {
	Donation    *models.Donation          `json:"donation"`
	Transaction *models.WalletTransaction `json:"transaction"`
	Balance     float64                   `json:"balance"`
}

type DonationCatalog struct {
	Items       []*models.DonationItemPrice `json:"items"`
	Types       []string                    `json:"types"`
	MaxQuantity int                         `json:"max_quantity"`
	Currency    string                      `json:"currency"`
}

type donationService struct {
	userRepo     interfaces.UserRepository
	animalRepo   interfaces.AnimalRepository
	shelterRepo  interfaces.ShelterRepository
	donationRepo interfaces.DonationRepository
	priceRepo    interfaces.DonationItemPriceRepository
	ledgerRepo   interfaces.WalletTransactionRepository
	balanceTx    *balanceTx
	notifier     NotificationService
	config       *config.DonationConfig
	logger       *logger.Logger
}

func NewDonationService(
	userRepo interfaces.UserRepository,
	animalRepo interfaces.AnimalRepository,
	shelterRepo interfaces.ShelterRepository,
	donationRepo interfaces.DonationRepository,
	priceRepo interfaces.DonationItemPriceRepository,
	ledgerRepo interfaces.WalletTransactionRepository,
	txManager interfaces.TxManager,
	notifier NotificationService,
	cfg *config.DonationConfig,
	logger *logger.Logger,
) DonationService {
	return &donationService{
		userRepo:     userRepo,
		animalRepo:   animalRepo,
		shelterRepo:  shelterRepo,
		donationRepo: donationRepo,
		priceRepo:    priceRepo,
		ledgerRepo:   ledgerRepo,
		balanceTx:    newBalanceTx(txManager, cfg.RetryAttempts, cfg.RetryBaseDelay),
		notifier:     notifier,
		config:       cfg,
		logger:       logger,
	}
}

func isCatalogType(donationType string) bool {
	switch donationType {
	case models.DonationTypeFood, models.DonationTypeToy, models.DonationTypeMedicine:
		return true
	}
	return false
}

func (s *donationService) Donate(ctx context.Context, userID primitive.ObjectID, request *DonationRequest) (*DonationReceipt, error) {
	donationType := strings.TrimSpace(request.DonationType)
	description := utils.SanitizeString(request.Description)
	currency := s.config.Currency

	var (
		amount   decimal.Decimal
		quantity int
		err      error
	)

	switch {
	case isCatalogType(donationType):
		quantity = request.Quantity
		if quantity < 1 || quantity > s.config.MaxQuantity {
			return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidQuantity, s.config.MaxQuantity)
		}

		price, err := s.priceRepo.GetByType(ctx, donationType)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrPriceNotConfigured, donationType)
			}
			return nil, fmt.Errorf("failed to load item price: %w", err)
		}
		if !price.Active || price.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrPriceNotConfigured, donationType)
		}

		amount = ItemAmount(price.UnitPrice, quantity)
		if description == "" {
			description = itemDescription(quantity, donationType, amount, currency)
		}

	case donationType == models.DonationTypeCash:
		if amount, err = ParseAmount(request.Amount, maxAmount(s.config.MaxAmount)); err != nil {
			return nil, err
		}
		if description == "" {
			description = cashDescription(amount, currency)
		}

	case donationType == models.DonationTypeOther:
		if amount, err = ParseAmount(request.Amount, maxAmount(s.config.MaxAmount)); err != nil {
			return nil, err
		}
		if description == "" {
			return nil, ErrDescriptionRequired
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDonationType, donationType)
	}

	animal, err := s.animalRepo.GetByID(ctx, request.AnimalID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to load animal: %w", err)
	}

	shelter, err := s.shelterRepo.GetByID(ctx, animal.ShelterID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, fmt.Errorf("failed to load shelter: %w", err)
	}

	var receipt *DonationReceipt
	err = s.balanceTx.run(ctx, "donation", func(ctx context.Context) error {
		receipt = nil

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to read user: %w", err)
		}

		balance := decimal.NewFromFloat(user.WalletBalance)
		if balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		newBalance := balance.Sub(amount)
		stored, err := storableBalance(newBalance)
		if err != nil {
			return err
		}

		if err := s.userRepo.CompareAndSetBalance(ctx, userID, user.WalletBalance, stored); err != nil {
			return err
		}

		now := time.Now()
		donation := &models.Donation{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			UserName:      user.DisplayName,
			AnimalID:      animal.ID,
			AnimalName:    animal.Name,
			ShelterID:     shelter.ID,
			ShelterName:   shelter.Name,
			DonationType:  donationType,
			Quantity:      quantity,
			Amount:        toFloat(amount),
			Currency:      currency,
			Description:   description,
			DonationDate:  now,
			Status:        models.DonationStatusCompleted,
			PaymentMethod: models.PaymentMethodWallet,
		}
		if err := s.donationRepo.Create(ctx, donation); err != nil {
			return fmt.Errorf("failed to record donation: %w", err)
		}

		entry := &models.WalletTransaction{
			ID:                primitive.NewObjectID(),
			UserID:            userID,
			Type:              models.WalletTransactionDonation,
			Amount:            donation.Amount,
			Currency:          currency,
			Description:       fmt.Sprintf("For %s: %s", animal.Name, description),
			Date:              now,
			RelatedDonationID: &donation.ID,
			RelatedAnimalID:   &animal.ID,
			RelatedShelterID:  &shelter.ID,
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to record wallet transaction: %w", err)
		}

		receipt = &DonationReceipt{
			Donation:    donation,
			Transaction: entry,
			Balance:     stored,
		}
		return nil
	})
	if err != nil {
		s.recordFailure(userID, err)
		return nil, err
	}

	metrics.RecordDonation(donationType, currency, receipt.Donation.Amount)
	s.logger.LogWalletEvent(userID, "donation", receipt.Donation.Amount, currency, map[string]interface{}{
		"donation_id":   receipt.Donation.ID.Hex(),
		"animal_id":     animal.ID.Hex(),
		"donation_type": donationType,
		"balance":       receipt.Balance,
	})

	s.notifier.NotifyDonationCompleted(ctx, receipt.Donation, receipt.Balance)

	return receipt, nil
}

func (s *donationService) recordFailure(userID primitive.ObjectID, err error) {
	reason := "backend"
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		reason = "insufficient_balance"
	case errors.Is(err, interfaces.ErrBalanceChanged):
		reason = "balance_changed"
	case errors.Is(err, ErrUserNotFound):
		reason = "user_not_found"
	}
	metrics.RecordWalletFailure("donation", reason)

	if reason == "backend" {
		s.logger.WithUserID(userID).WithError(err).Error("Donation transaction failed")
	}
}

func (s *donationService) ListMyDonations(ctx context.Context, userID primitive.ObjectID) ([]*models.Donation, error) {
	donations, err := s.donationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

func (s *donationService) ListCatalog(ctx context.Context) (*DonationCatalog, error) {
	items, err := s.priceRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list item prices: %w", err)
	}

	types := make([]string, 0, len(items)+2)
	for _, item := range items {
		if isCatalogType(item.Type) {
			types = append(types, item.Type)
		}
	}
	types = append(types, models.DonationTypeCash, models.DonationTypeOther)

	return &DonationCatalog{
		Items:       items,
		Types:       types,
		MaxQuantity: s.config.MaxQuantity,
		Currency:    s.config.Currency,
	}, nil
}
