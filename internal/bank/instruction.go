package bank

import "github.com/shopspring/decimal"

// InstructionKind covers every action an input record can describe: the two
// realizable transaction kinds plus the three amendment kinds.
type InstructionKind string

const (
	Deposit    InstructionKind = "deposit"
	Withdrawal InstructionKind = "withdrawal"
	Dispute    InstructionKind = "dispute"
	Resolve    InstructionKind = "resolve"
	Chargeback InstructionKind = "chargeback"
)

// Valid reports whether the kind is one of the five known instruction kinds.
func (k InstructionKind) Valid() bool {
	switch k {
	case Deposit, Withdrawal, Dispute, Resolve, Chargeback:
		return true
	}
	return false
}

// RequiresAmount reports whether the kind carries a monetary amount. Dispute,
// resolve and chargeback reference the amount of the original transaction and
// carry none of their own.
func (k InstructionKind) RequiresAmount() bool {
	return k == Deposit || k == Withdrawal
}

// Instruction is one input record describing an action to apply. Amount is
// nil for the amendment kinds.
type Instruction struct {
	Kind   InstructionKind
	Client ClientID
	TX     TransactionID
	Amount *decimal.Decimal
}
