package services

import (
	"context"
	"encoding/json"
	"testing"

	"shelterfund/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDeposit(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 10)
	ctx := context.Background()

	receipt, err := env.walletService().Deposit(ctx, user.ID, "25,50")
	require.NoError(t, err)

	assert.Equal(t, 35.5, receipt.Balance)
	assert.Equal(t, models.WalletTransactionDeposit, receipt.Transaction.Type)
	assert.Equal(t, 25.5, receipt.Transaction.Amount)
	assert.Equal(t, "25.50 TRY deposited to wallet", receipt.Transaction.Description)
	assert.Equal(t, 35.5, env.balance(t, user.ID))
	assert.Equal(t, []string{"wallet"}, env.notifier.kinds())
}

func TestDeposit_InvalidAmount(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 10)

	for _, raw := range []string{"", "0", "-1", "ten", "1e400", "10000.01", "5.555"} {
		_, err := env.walletService().Deposit(context.Background(), user.ID, raw)
		require.ErrorIs(t, err, ErrInvalidAmount, raw)
	}
	assert.Equal(t, 10.0, env.balance(t, user.ID))
	assert.Empty(t, env.notifier.kinds())
}

func TestDeposit_OversizedAmountLeavesWalletUsable(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 10)
	ctx := context.Background()

	_, err := env.walletService().Deposit(ctx, user.ID, "1e400")
	require.ErrorIs(t, err, ErrInvalidAmount)

	wallet, err := env.walletService().GetWallet(ctx, user.ID)
	require.NoError(t, err)
	_, err = json.Marshal(wallet)
	require.NoError(t, err)
	assert.Equal(t, 10.0, wallet.Balance)

	_, err = env.donationService().Donate(ctx, user.ID, &DonationRequest{
		AnimalID:     env.animal.ID,
		DonationType: models.DonationTypeCash,
		Amount:       "1",
	})
	require.NoError(t, err)
	assert.Equal(t, 9.0, env.balance(t, user.ID))
}

func TestDeposit_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.walletService().Deposit(context.Background(), primitive.NewObjectID(), "10")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetWallet(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, 0)
	ctx := context.Background()
	wallet := env.walletService()

	_, err := wallet.Deposit(ctx, user.ID, "100")
	require.NoError(t, err)
	_, err = env.donationService().Donate(ctx, user.ID, &DonationRequest{
		AnimalID:     env.animal.ID,
		DonationType: models.DonationTypeToy,
		Quantity:     1,
	})
	require.NoError(t, err)

	got, err := wallet.GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.Balance)
	assert.Equal(t, "TRY", got.Currency)
	require.Len(t, got.Transactions, 2)
}

func TestReconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	wallet := env.walletService()

	consistent := env.newUser(t, 0)
	_, err := wallet.Deposit(ctx, consistent.ID, "100")
	require.NoError(t, err)
	_, err = env.donationService().Donate(ctx, consistent.ID, &DonationRequest{
		AnimalID:     env.animal.ID,
		DonationType: models.DonationTypeCash,
		Amount:       "40",
	})
	require.NoError(t, err)

	report, err := wallet.Reconcile(ctx, consistent.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, report.Balance)
	assert.Equal(t, 60.0, report.LedgerNet)
	assert.False(t, report.Drifted())

	// Balance set without any ledger entry.
	drifted := env.newUser(t, 100)
	report, err = wallet.Reconcile(ctx, drifted.ID)
	require.NoError(t, err)
	assert.True(t, report.Drifted())
	assert.Equal(t, 100.0, report.Drift)

	summary, err := wallet.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Checked)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Drifted, 1)
	assert.Equal(t, drifted.ID, summary.Drifted[0].UserID)
}
