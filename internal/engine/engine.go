package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/payments-replay-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models/events"
)

// ProcessingEngine interprets one transaction at a time against the store.
// It keeps no state of its own: every decision is driven by the store's
// current contents, so two engines over the same store are interchangeable.
//
// Failure contract: transactions that violate a business rule (insufficient
// funds, disputing an unknown or non-deposit transaction, resolving or
// charging back without an active dispute) are silently skipped. Only
// backing-store or publisher failures surface as errors.
type ProcessingEngine struct {
	store  interfaces.TransactionStore
	events interfaces.EventPublisher
}

// NewProcessingEngine creates an engine over the given store. publisher may
// be nil, in which case applied transactions produce no events.
func NewProcessingEngine(store interfaces.TransactionStore, publisher interfaces.EventPublisher) *ProcessingEngine {
	return &ProcessingEngine{
		store:  store,
		events: publisher,
	}
}

// Process applies one transaction. A skipped transaction is not an error;
// a non-nil return always means infrastructure failure, never a rule
// violation.
func (e *ProcessingEngine) Process(ctx context.Context, txn models.Transaction) error {
	var (
		applied bool
		err     error
	)

	switch txn.Type {
	case models.TypeDeposit:
		applied, err = e.processDeposit(ctx, txn)
	case models.TypeWithdrawal:
		applied, err = e.processWithdrawal(ctx, txn)
	case models.TypeDispute:
		applied, err = e.processDispute(ctx, txn)
	case models.TypeResolve:
		applied, err = e.processResolve(ctx, txn)
	case models.TypeChargeback:
		applied, err = e.processChargeback(ctx, txn)
	}
	if err != nil {
		return err
	}

	if applied && e.events != nil {
		return e.events.Publish(ctx, events.TransactionApplied{
			EventID:    uuid.NewString(),
			Type:       txn.Type,
			Client:     txn.Client,
			Tx:         txn.Tx,
			OccurredAt: time.Now().UTC(),
		})
	}
	return nil
}

// processDeposit always applies: the account is created lazily on first
// touch, then gains the amount in both available and total.
func (e *ProcessingEngine) processDeposit(ctx context.Context, txn models.Transaction) (bool, error) {
	account, found, err := e.store.RetrieveAccount(ctx, txn.Client)
	if err != nil {
		return false, err
	}
	if !found {
		account = models.NewAccount(txn.Client)
	}

	account.Available += txn.Amount
	account.Total += txn.Amount
	if err := e.store.SaveAccount(ctx, account); err != nil {
		return false, err
	}
	return true, e.store.SaveTransaction(ctx, txn)
}

// processWithdrawal applies only when the account exists and has sufficient
// available funds; otherwise the transaction is dropped without a trace.
func (e *ProcessingEngine) processWithdrawal(ctx context.Context, txn models.Transaction) (bool, error) {
	account, found, err := e.store.RetrieveAccount(ctx, txn.Client)
	if err != nil {
		return false, err
	}
	if !found || account.Available < txn.Amount {
		return false, nil
	}

	account.Available -= txn.Amount
	account.Total -= txn.Amount
	if err := e.store.SaveAccount(ctx, account); err != nil {
		return false, err
	}
	return true, e.store.SaveTransaction(ctx, txn)
}

// processDispute freezes the referenced deposit's amount: available down,
// held up, total unchanged. Only deposits are disputable; the referenced
// transaction and the account must both exist, and the account must still
// have the funds available to freeze.
func (e *ProcessingEngine) processDispute(ctx context.Context, txn models.Transaction) (bool, error) {
	amount, ok, err := e.referencedDeposit(ctx, txn)
	if err != nil || !ok {
		return false, err
	}

	account, found, err := e.store.RetrieveAccount(ctx, txn.Client)
	if err != nil {
		return false, err
	}
	if !found || account.Available < amount {
		return false, nil
	}

	account.Available -= amount
	account.Held += amount
	if err := e.store.SaveAccount(ctx, account); err != nil {
		return false, err
	}
	return true, e.store.SaveTransaction(ctx, txn)
}

// processResolve releases a disputed deposit back to available and clears
// the dispute marker, so the deposit can be disputed again later.
func (e *ProcessingEngine) processResolve(ctx context.Context, txn models.Transaction) (bool, error) {
	amount, ok, err := e.activeDisputedDeposit(ctx, txn)
	if err != nil || !ok {
		return false, err
	}

	account, found, err := e.store.RetrieveAccount(ctx, txn.Client)
	if err != nil {
		return false, err
	}
	if !found || account.Held < amount {
		return false, nil
	}

	account.Available += amount
	account.Held -= amount
	if err := e.store.SaveAccount(ctx, account); err != nil {
		return false, err
	}
	if err := e.store.SaveTransaction(ctx, txn); err != nil {
		return false, err
	}
	return true, e.store.ClearDispute(ctx, txn.Client, txn.Tx)
}

// processChargeback reverses a disputed deposit for good: held and total
// drop by the amount, the dispute marker is cleared and the account is
// locked. The lock is reported in the final state but later transactions
// are not blocked by it.
func (e *ProcessingEngine) processChargeback(ctx context.Context, txn models.Transaction) (bool, error) {
	amount, ok, err := e.activeDisputedDeposit(ctx, txn)
	if err != nil || !ok {
		return false, err
	}

	account, found, err := e.store.RetrieveAccount(ctx, txn.Client)
	if err != nil {
		return false, err
	}
	if !found || account.Held < amount {
		return false, nil
	}

	account.Total -= amount
	account.Held -= amount
	account.Locked = true
	if err := e.store.SaveAccount(ctx, account); err != nil {
		return false, err
	}
	if err := e.store.SaveTransaction(ctx, txn); err != nil {
		return false, err
	}
	return true, e.store.ClearDispute(ctx, txn.Client, txn.Tx)
}

// referencedDeposit resolves the (client, tx) reference to the amount of the
// original deposit. Unknown transactions and withdrawals yield (0, false).
func (e *ProcessingEngine) referencedDeposit(ctx context.Context, txn models.Transaction) (models.Amount, bool, error) {
	referenced, found, err := e.store.RetrieveTransaction(ctx, txn.Client, txn.Tx)
	if err != nil || !found {
		return 0, false, err
	}

	amount, ok := referenced.DisputableAmount()
	return amount, ok, nil
}

// activeDisputedDeposit is the shared gate for resolve and chargeback: the
// key must carry an active dispute and reference a deposit.
func (e *ProcessingEngine) activeDisputedDeposit(ctx context.Context, txn models.Transaction) (models.Amount, bool, error) {
	disputed, err := e.store.HasDisputes(ctx, txn.Client, txn.Tx)
	if err != nil || !disputed {
		return 0, false, err
	}
	return e.referencedDeposit(ctx, txn)
}
