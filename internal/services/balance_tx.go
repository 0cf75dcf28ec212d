package services

import (
	"context"
	"errors"
	"time"

	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/metrics"

	"github.com/sethvargo/go-retry"
)

// balanceTx runs wallet-mutating transactions. A compare-and-set conflict
// aborts the transaction and the whole body is retried with a fresh read,
// up to attempts extra times.
type balanceTx struct {
	tx       interfaces.TxManager
	attempts int
	base     time.Duration
}

func newBalanceTx(tx interfaces.TxManager, attempts int, base time.Duration) *balanceTx {
	if attempts < 0 {
		attempts = 0
	}
	if base <= 0 {
		base = 10 * time.Millisecond
	}
	return &balanceTx{tx: tx, attempts: attempts, base: base}
}

func (b *balanceTx) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(b.attempts), retry.NewExponential(b.base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := b.tx.WithTransaction(ctx, fn)
		if errors.Is(err, interfaces.ErrBalanceChanged) {
			metrics.RecordBalanceRetry(op)
			return retry.RetryableError(err)
		}
		return err
	})
}
