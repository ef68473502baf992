package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles storage transactions. Every compound engine
// operation (file create, cascade delete) runs inside ExecTx so that the
// compound effect is atomic from the perspective of any other reader.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
