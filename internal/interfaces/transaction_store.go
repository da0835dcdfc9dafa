package interfaces

import (
	"context"

	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// TransactionStore is the repository of accounts and historical transactions
// for one processing run. "Not found" is reported through the boolean, never
// as an error; the error return carries only backing-store failures (the
// in-memory implementation never fails).
type TransactionStore interface {
	// RetrieveAccount reads the current snapshot for a client, or
	// (zero, false) if the client has never been seen.
	RetrieveAccount(ctx context.Context, client uint16) (models.Account, bool, error)

	// SaveAccount upserts the account keyed by its client id, replacing the
	// whole record.
	SaveAccount(ctx context.Context, account models.Account) error

	// RetrieveTransaction looks up a previously saved deposit or withdrawal
	// by its (client, tx) key. Dispute, resolve and chargeback records are
	// never returned here.
	RetrieveTransaction(ctx context.Context, client uint16, tx uint32) (models.Transaction, bool, error)

	// SaveTransaction records the transaction. Deposits and withdrawals go
	// into the general ledger keyed by (client, tx), last write wins; each
	// of dispute, resolve and chargeback goes into its own collection.
	SaveTransaction(ctx context.Context, txn models.Transaction) error

	// HasDisputes reports whether a dispute is currently active for the key.
	HasDisputes(ctx context.Context, client uint16, tx uint32) (bool, error)

	// ClearDispute removes the active-dispute marker for the key, if any.
	ClearDispute(ctx context.Context, client uint16, tx uint32) error

	// RetrieveAllAccounts snapshots every account, in ascending client id.
	RetrieveAllAccounts(ctx context.Context) ([]models.Account, error)
}
