package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletService interface {
	Deposit(ctx context.Context, userID primitive.ObjectID, amount string) (*DepositReceipt, error)
	GetWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)

	// Reconcile compares the stored balance with the ledger net sum.
	Reconcile(ctx context.Context, userID primitive.ObjectID) (*ReconcileReport, error)
	ReconcileAll(ctx context.Context) (*ReconcileSummary, error)
}

type DepositReceipt struct {
	Transaction *models.WalletTransaction `json:"transaction"`
	Balance     float64                   `json:"balance"`
}

type ReconcileReport struct {
	UserID    primitive.ObjectID `json:"user_id"`
	Balance   float64            `json:"balance"`
	LedgerNet float64            `json:"ledger_net"`
	Drift     float64            `json:"drift"`
}

func (r *ReconcileReport) Drifted() bool {
	return r.Drift != 0
}

type ReconcileSummary struct {
	Checked int                `json:"checked"`
	Drifted []*ReconcileReport `json:"drifted"`
	Failed  int                `json:"failed"`
}

type walletService struct {
	userRepo   interfaces.UserRepository
	ledgerRepo interfaces.WalletTransactionRepository
	balanceTx  *balanceTx
	notifier   NotificationService
	config     *config.DonationConfig
	logger     *logger.Logger
}

func NewWalletService(
	userRepo interfaces.UserRepository,
	ledgerRepo interfaces.WalletTransactionRepository,
	txManager interfaces.TxManager,
	notifier NotificationService,
	cfg *config.DonationConfig,
	logger *logger.Logger,
) WalletService {
	return &walletService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		balanceTx:  newBalanceTx(txManager, cfg.RetryAttempts, cfg.RetryBaseDelay),
		notifier:   notifier,
		config:     cfg,
		logger:     logger,
	}
}

func (s *walletService) Deposit(ctx context.Context, userID primitive.ObjectID, raw string) (*DepositReceipt, error) {
	amount, err := ParseAmount(raw, maxAmount(s.config.MaxAmount))
	if err != nil {
		return nil, err
	}
	currency := s.config.Currency

	var receipt *DepositReceipt
	err = s.balanceTx.run(ctx, "deposit", func(ctx context.Context) error {
		receipt = nil

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to read user: %w", err)
		}

		newBalance := decimal.NewFromFloat(user.WalletBalance).Add(amount)
		stored, err := storableBalance(newBalance)
		if err != nil {
			return err
		}
		if err := s.userRepo.CompareAndSetBalance(ctx, userID, user.WalletBalance, stored); err != nil {
			return err
		}

		entry := &models.WalletTransaction{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			Type:        models.WalletTransactionDeposit,
			Amount:      toFloat(amount),
			Currency:    currency,
			Description: depositDescription(amount, currency),
			Date:        time.Now(),
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to record wallet transaction: %w", err)
		}

		receipt = &DepositReceipt{Transaction: entry, Balance: stored}
		return nil
	})
	if err != nil {
		reason := "backend"
		switch {
		case errors.Is(err, interfaces.ErrBalanceChanged):
			reason = "balance_changed"
		case errors.Is(err, ErrUserNotFound):
			reason = "user_not_found"
		default:
			s.logger.WithUserID(userID).WithError(err).Error("Deposit transaction failed")
		}
		metrics.RecordWalletFailure("deposit", reason)
		return nil, err
	}

	metrics.RecordDeposit(currency, receipt.Transaction.Amount)
	s.logger.LogWalletEvent(userID, "deposit", receipt.Transaction.Amount, currency, map[string]interface{}{
		"transaction_id": receipt.Transaction.ID.Hex(),
		"balance":        receipt.Balance,
	})

	s.notifier.NotifyWalletUpdated(ctx, userID, receipt.Balance, currency)

	return receipt, nil
}

func (s *walletService) GetWallet(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	entries, err := s.ledgerRepo.ListByUser(ctx, userID, s.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	return &models.Wallet{
		Balance:      user.WalletBalance,
		Currency:     s.config.Currency,
		Transactions: entries,
	}, nil
}

func (s *walletService) Reconcile(ctx context.Context, userID primitive.ObjectID) (*ReconcileReport, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	net, err := s.ledgerRepo.NetAmount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}

	balance := decimal.NewFromFloat(user.WalletBalance).Round(2)
	ledger := decimal.NewFromFloat(net).Round(2)

	return &ReconcileReport{
		UserID:    userID,
		Balance:   toFloat(balance),
		LedgerNet: toFloat(ledger),
		Drift:     toFloat(balance.Sub(ledger)),
	}, nil
}

func (s *walletService) ReconcileAll(ctx context.Context) (*ReconcileSummary, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summary := &ReconcileSummary{Drifted: []*ReconcileReport{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report, err := s.Reconcile(ctx, id)
		if err != nil {
			summary.Failed++
			s.logger.WithUserID(id).WithError(err).Warn("Wallet reconciliation failed")
			continue
		}

		summary.Checked++
		if report.Drifted() {
			summary.Drifted = append(summary.Drifted, report)
			s.logger.WithUserID(id).WithFields(map[string]interface{}{
				"balance":    report.Balance,
				"ledger_net": report.LedgerNet,
				"drift":      report.Drift,
			}).Warn("Wallet balance drifted from ledger")
		}
	}

	metrics.SetDriftedWallets(len(summary.Drifted))
	return summary, nil
}
