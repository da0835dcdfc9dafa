package models

// TransactionType tags the five kinds of records in the input stream.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// Transaction represents one record from the input stream.
// Amount is meaningful only for deposits and withdrawals; dispute, resolve
// and chargeback carry no amount of their own and instead reference a prior
// transaction through the (Client, Tx) pair.
type Transaction struct {
	Type   TransactionType
	Client uint16
	Tx     uint32
	Amount Amount
}

// DisputableAmount returns the amount a dispute against this transaction
// would freeze. Only deposits are disputable in this model; for anything
// else the result is (0, false).
func (t Transaction) DisputableAmount() (Amount, bool) {
	if t.Type == TypeDeposit && t.Amount > 0 {
		return t.Amount, true
	}
	return 0, false
}
