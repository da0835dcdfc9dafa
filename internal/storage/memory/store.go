package memory

import (
	"context"
	"sort"
	"sync"

	interfaces "github.com/sheikh-saqib/payments-replay-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// txKey is the composite lookup key for transactions and dispute records.
type txKey struct {
	client uint16
	tx     uint32
}

// MemoryTransactionStore is an in-memory implementation of
// interfaces.TransactionStore. Deposits and withdrawals live in the general
// ledger map; disputes, resolves and chargebacks are each kept in their own
// map so they never shadow the original transaction they reference.
type MemoryTransactionStore struct {
	mu           sync.Mutex
	accounts     map[uint16]models.Account
	transactions map[txKey]models.Transaction
	disputes     map[txKey]models.Transaction
	resolves     map[txKey]models.Transaction
	chargebacks  map[txKey]models.Transaction
}

// NewMemoryTransactionStore creates an empty MemoryTransactionStore.
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{
		accounts:     make(map[uint16]models.Account),
		transactions: make(map[txKey]models.Transaction),
		disputes:     make(map[txKey]models.Transaction),
		resolves:     make(map[txKey]models.Transaction),
		chargebacks:  make(map[txKey]models.Transaction),
	}
}

func (m *MemoryTransactionStore) RetrieveAccount(ctx context.Context, client uint16) (models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[client]
	return account, ok, nil
}

func (m *MemoryTransactionStore) SaveAccount(ctx context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[account.Client] = account
	return nil
}

func (m *MemoryTransactionStore) RetrieveTransaction(ctx context.Context, client uint16, tx uint32) (models.Transaction, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.transactions[txKey{client, tx}]
	return txn, ok, nil
}

// SaveTransaction routes the record by type: deposits and withdrawals into
// the general ledger (last write wins), everything else into its own
// collection.
func (m *MemoryTransactionStore) SaveTransaction(ctx context.Context, txn models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := txKey{txn.Client, txn.Tx}
	switch txn.Type {
	case models.TypeDispute:
		m.disputes[key] = txn
	case models.TypeResolve:
		m.resolves[key] = txn
	case models.TypeChargeback:
		m.chargebacks[key] = txn
	default:
		m.transactions[key] = txn
	}
	return nil
}

func (m *MemoryTransactionStore) HasDisputes(ctx context.Context, client uint16, tx uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.disputes[txKey{client, tx}]
	return ok, nil
}

func (m *MemoryTransactionStore) ClearDispute(ctx context.Context, client uint16, tx uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.disputes, txKey{client, tx})
	return nil
}

// RetrieveAllAccounts returns a snapshot of every account in ascending
// client order, so report output is deterministic.
func (m *MemoryTransactionStore) RetrieveAllAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]models.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Client < accounts[j].Client
	})
	return accounts, nil
}

// Compile-time check: ensure MemoryTransactionStore implements TransactionStore
var _ interfaces.TransactionStore = (*MemoryTransactionStore)(nil)
