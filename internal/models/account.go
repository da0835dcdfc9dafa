package models

// Account holds the running balances for one client.
// Invariant after every applied transaction: Total == Available + Held.
// Locked becomes true on chargeback and is never cleared; the engine reports
// it but does not consult it before applying further transactions.
type Account struct {
	Client    uint16
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}

// NewAccount returns the zero-balance account created on first touch of an
// unseen client.
func NewAccount(client uint16) Account {
	return Account{Client: client}
}
