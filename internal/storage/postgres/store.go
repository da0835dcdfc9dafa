package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	interfaces "github.com/sheikh-saqib/payments-replay-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// PostgresTransactionStore is a database/sql implementation of
// interfaces.TransactionStore. It satisfies the same contract as the
// in-memory store; amounts are persisted as scaled BIGINT minor units so no
// precision is lost in transit.
type PostgresTransactionStore struct {
	db *sql.DB
}

func NewPostgresTransactionStore(db *sql.DB) *PostgresTransactionStore {
	return &PostgresTransactionStore{
		db: db,
	}
}

// Migrate creates the backing tables when they do not exist yet.
func (p *PostgresTransactionStore) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		client    INTEGER PRIMARY KEY,
		available BIGINT  NOT NULL,
		held      BIGINT  NOT NULL,
		total     BIGINT  NOT NULL,
		locked    BOOLEAN NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		client INTEGER NOT NULL,
		tx     BIGINT  NOT NULL,
		type   TEXT    NOT NULL,
		amount BIGINT  NOT NULL,
		PRIMARY KEY (client, tx)
	);
	CREATE TABLE IF NOT EXISTS disputes (
		client INTEGER NOT NULL,
		tx     BIGINT  NOT NULL,
		PRIMARY KEY (client, tx)
	);
	CREATE TABLE IF NOT EXISTS resolves (
		client INTEGER NOT NULL,
		tx     BIGINT  NOT NULL,
		PRIMARY KEY (client, tx)
	);
	CREATE TABLE IF NOT EXISTS chargebacks (
		client INTEGER NOT NULL,
		tx     BIGINT  NOT NULL,
		PRIMARY KEY (client, tx)
	)`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (p *PostgresTransactionStore) RetrieveAccount(ctx context.Context, client uint16) (models.Account, bool, error) {
	const query = `SELECT client, available, held, total, locked FROM accounts WHERE client = $1`

	var account models.Account
	err := p.db.QueryRowContext(ctx, query, int64(client)).Scan(
		&account.Client,
		&account.Available,
		&account.Held,
		&account.Total,
		&account.Locked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, false, nil
	}
	if err != nil {
		return models.Account{}, false, err
	}
	return account, true, nil
}

func (p *PostgresTransactionStore) SaveAccount(ctx context.Context, account models.Account) error {
	const query = `INSERT INTO accounts (client, available, held, total, locked)
	VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (client) DO UPDATE
	SET available = EXCLUDED.available, held = EXCLUDED.held,
	    total = EXCLUDED.total, locked = EXCLUDED.locked`

	_, err := p.db.ExecContext(ctx, query,
		int64(account.Client), int64(account.Available), int64(account.Held),
		int64(account.Total), account.Locked)
	return err
}

func (p *PostgresTransactionStore) RetrieveTransaction(ctx context.Context, client uint16, tx uint32) (models.Transaction, bool, error) {
	const query = `SELECT client, tx, type, amount FROM transactions WHERE client = $1 AND tx = $2`

	var txn models.Transaction
	err := p.db.QueryRowContext(ctx, query, int64(client), int64(tx)).Scan(
		&txn.Client,
		&txn.Tx,
		&txn.Type,
		&txn.Amount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, false, nil
	}
	if err != nil {
		return models.Transaction{}, false, err
	}
	return txn, true, nil
}

// SaveTransaction routes by type the same way the in-memory store does:
// deposits and withdrawals upsert into the general ledger, dispute/resolve/
// chargeback records land in their own tables.
func (p *PostgresTransactionStore) SaveTransaction(ctx context.Context, txn models.Transaction) error {
	const ledgerQuery = `INSERT INTO transactions (client, tx, type, amount)
	VALUES ($1,$2,$3,$4)
	ON CONFLICT (client, tx) DO UPDATE
	SET type = EXCLUDED.type, amount = EXCLUDED.amount`

	var query string
	switch txn.Type {
	case models.TypeDispute:
		query = `INSERT INTO disputes (client, tx) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	case models.TypeResolve:
		query = `INSERT INTO resolves (client, tx) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	case models.TypeChargeback:
		query = `INSERT INTO chargebacks (client, tx) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	default:
		_, err := p.db.ExecContext(ctx, ledgerQuery,
			int64(txn.Client), int64(txn.Tx), string(txn.Type), int64(txn.Amount))
		return err
	}

	_, err := p.db.ExecContext(ctx, query, int64(txn.Client), int64(txn.Tx))
	return err
}

func (p *PostgresTransactionStore) HasDisputes(ctx context.Context, client uint16, tx uint32) (bool, error) {
	const query = `SELECT 1 FROM disputes WHERE client = $1 AND tx = $2 LIMIT 1`

	var exists int
	err := p.db.QueryRowContext(ctx, query, int64(client), int64(tx)).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *PostgresTransactionStore) ClearDispute(ctx context.Context, client uint16, tx uint32) error {
	const query = `DELETE FROM disputes WHERE client = $1 AND tx = $2`

	_, err := p.db.ExecContext(ctx, query, int64(client), int64(tx))
	return err
}

func (p *PostgresTransactionStore) RetrieveAllAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT client, available, held, total, locked FROM accounts ORDER BY client`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.Client,
			&account.Available,
			&account.Held,
			&account.Total,
			&account.Locked,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

var _ interfaces.TransactionStore = (*PostgresTransactionStore)(nil)
