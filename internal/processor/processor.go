package processor

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/payments-replay-engine/internal/engine"
	interfaces "github.com/sheikh-saqib/payments-replay-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// Processor drives one full run: it reads delimited records, feeds them to
// the engine one at a time, and renders the final account report.
//
// Error contract: any structural problem with the input (unreadable stream,
// unknown transaction type, unparseable field) aborts the run with an error.
// Business-rule violations are the engine's concern and never surface here.
type Processor struct {
	engine *engine.ProcessingEngine
	store  interfaces.TransactionStore
}

func New(eng *engine.ProcessingEngine, store interfaces.TransactionStore) *Processor {
	return &Processor{
		engine: eng,
		store:  store,
	}
}

// Run replays every record from r and writes the account report to w.
func (p *Processor) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may have a variable number of fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	columns := columnIndexes(header)

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}

		txn, err := recordToTransaction(columns, record)
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if err := p.engine.Process(ctx, txn); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}

	accounts, err := p.store.RetrieveAllAccounts(ctx)
	if err != nil {
		return err
	}
	return WriteReport(w, accounts)
}

// columnIndexes maps trimmed header names to their positions so column
// order in the input file does not matter.
func columnIndexes(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

// field returns the trimmed value of a named column, or "" when the column
// is absent from the header or from this particular row.
func field(columns map[string]int, record []string, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// recordToTransaction builds a typed transaction from one raw row.
// Transaction types are matched case-sensitively; anything unrecognized is
// a hard parse error, not a skip.
func recordToTransaction(columns map[string]int, record []string) (models.Transaction, error) {
	rawType := field(columns, record, "type")
	client, err := strconv.ParseUint(field(columns, record, "client"), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid client id: %w", err)
	}
	tx, err := strconv.ParseUint(field(columns, record, "tx"), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid transaction id: %w", err)
	}

	txn := models.Transaction{
		Type:   models.TransactionType(rawType),
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	switch txn.Type {
	case models.TypeDeposit, models.TypeWithdrawal:
		rawAmount := field(columns, record, "amount")
		if rawAmount == "" {
			return models.Transaction{}, fmt.Errorf("amount is empty for %s tx %d", rawType, tx)
		}
		amount, err := models.ParseAmount(rawAmount)
		if err != nil {
			return models.Transaction{}, err
		}
		txn.Amount = amount
	case models.TypeDispute, models.TypeResolve, models.TypeChargeback:
		// reference-only records, no amount of their own
	default:
		return models.Transaction{}, fmt.Errorf("unsupported transaction type %q", rawType)
	}
	return txn, nil
}
