package bank

import "github.com/shopspring/decimal"

// TransactionID identifies a realized transaction. IDs are globally unique
// across all clients.
type TransactionID uint32

// TransactionKind is the type of realized transaction held in the ledger.
// Only deposits and withdrawals are ever realized; the dispute lifecycle
// amends them instead of creating new entries.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// Amendment is a lifecycle event appended to a transaction's history.
type Amendment string

const (
	AmendmentDispute    Amendment = "dispute"
	AmendmentResolve    Amendment = "resolve"
	AmendmentChargeback Amendment = "chargeback"
)

// Transaction is the durable record of a realized deposit or withdrawal.
// Its original data is never modified once created; the dispute lifecycle is
// recorded as an append-only amendment history.
type Transaction struct {
	Client ClientID
	TX     TransactionID
	Kind   TransactionKind
	Amount decimal.Decimal

	amendments []Amendment
}

// NewTransaction creates a realized transaction with an empty amendment history.
func NewTransaction(client ClientID, tx TransactionID, kind TransactionKind, amount decimal.Decimal) *Transaction {
	return &Transaction{
		Client: client,
		TX:     tx,
		Kind:   kind,
		Amount: amount,
	}
}

// IsDisputed reports whether the transaction is currently in dispute, that is,
// its most recent amendment is a dispute. A resolve or chargeback clears the
// disputed status.
func (t *Transaction) IsDisputed() bool {
	if len(t.amendments) == 0 {
		return false
	}
	return t.amendments[len(t.amendments)-1] == AmendmentDispute
}

// Amended reports whether any lifecycle event has been recorded against the
// transaction.
func (t *Transaction) Amended() bool {
	return len(t.amendments) > 0
}

// Amend appends a lifecycle event to the transaction's history.
func (t *Transaction) Amend(a Amendment) {
	t.amendments = append(t.amendments, a)
}

// AmendmentHistory returns a copy of the transaction's lifecycle history in
// the order the events were applied.
func (t *Transaction) AmendmentHistory() []Amendment {
	history := make([]Amendment, len(t.amendments))
	copy(history, t.amendments)
	return history
}
