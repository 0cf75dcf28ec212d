package interfaces

import "context"

// TxManager runs fn inside a multi-document transaction. Repositories called
// with the ctx handed to fn take part in the transaction. Any error returned
// by fn aborts it and no write made through that ctx becomes visible.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
