package bank

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits carried by every emitted amount.
const MoneyScale = 4

// ClientID identifies an account holder.
type ClientID uint16

// Account holds the monetary state for a single client. Available funds are
// spendable; held funds are provisionally removed pending dispute resolution.
// Once Locked is set the account rejects every further instruction.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

func newAccount(client ClientID) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available + held, rounded to MoneyScale fractional digits.
// It is derived on read and never stored.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held).Round(MoneyScale)
}
