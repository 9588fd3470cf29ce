package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientFundsError is returned when a withdrawal asks for more than the
// account's available balance. The account is left unchanged.
type InsufficientFundsError struct {
	Client    ClientID
	TX        TransactionID
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for client %d: requested %s, available %s",
		e.Client, e.Requested.StringFixed(MoneyScale), e.Available.StringFixed(MoneyScale))
}

// AccountFrozenError is returned for every instruction targeting an account
// that has been locked by a chargeback.
type AccountFrozenError struct {
	Client ClientID
}

func (e *AccountFrozenError) Error() string {
	return fmt.Sprintf("account for client %d is frozen", e.Client)
}

// NegativeAmountError is returned when an instruction carries a negative
// amount. Nothing is mutated.
type NegativeAmountError struct {
	Client ClientID
	TX     TransactionID
	Amount decimal.Decimal
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("negative amount %s for client %d tx %d", e.Amount, e.Client, e.TX)
}

// DuplicateTransactionError is returned when a deposit or withdrawal reuses a
// transaction ID already present in the ledger. The original ledger entry is
// never overwritten.
type DuplicateTransactionError struct {
	Client ClientID
	TX     TransactionID
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transaction id %d already exists, client %d instruction dropped", e.TX, e.Client)
}
