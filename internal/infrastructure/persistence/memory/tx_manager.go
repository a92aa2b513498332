package memory

import "context"

// TxManager is the in-memory stand-in for a storage transaction.
// There is nothing to roll back, so it just runs fn; the services'
// compensating releases carry the consistency burden on this backend.
type TxManager struct{}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
