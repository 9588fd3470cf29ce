package bank

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestEngine_DepositsAccumulate(t *testing.T) {
	e := newTestEngine()

	amounts := []string{"1.5", "2.25", "0.0001", "10"}
	var tx TransactionID
	for _, a := range amounts {
		_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: tx, Amount: amt(a)})
		require.NoError(t, err)
		tx++
	}

	acct, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: tx, Amount: amt("0")})
	require.NoError(t, err)

	assert.True(t, acct.Available.Equal(dec("13.7501")))
	assert.True(t, acct.Held.IsZero())
	assert.False(t, acct.Locked)
}

func TestEngine_Withdrawal(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("3")})
	require.NoError(t, err)

	assert.True(t, acct.Available.Equal(dec("7")))
	assert.True(t, acct.Total().Equal(dec("7")))
}

func TestEngine_WithdrawalInsufficientFunds(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("5")})
	require.NoError(t, err)

	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("5.0001")})

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, ClientID(1), insufficient.Client)
	assert.True(t, insufficient.Requested.Equal(dec("5.0001")))

	// Account state unchanged on rejection, and the failed withdrawal must
	// not occupy its transaction id.
	acct, err := e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("5")})
	require.NoError(t, err)
	assert.True(t, acct.Available.IsZero())
}

func TestEngine_NegativeAmountRejected(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("-1")})
	var negative *NegativeAmountError
	require.ErrorAs(t, err, &negative)

	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("-0.5")})
	require.ErrorAs(t, err, &negative)

	accounts := e.Accounts()
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Available.IsZero())
	assert.True(t, accounts[0].Held.IsZero())
}

func TestEngine_DuplicateTransactionID(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)

	var duplicate *DuplicateTransactionError

	_, err = e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("99")})
	require.ErrorAs(t, err, &duplicate)

	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 2, TX: 1, Amount: amt("1")})
	require.ErrorAs(t, err, &duplicate)

	// Original ledger entry survives: a dispute still holds the original
	// amount, not the rejected overwrite.
	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Held.Equal(dec("10")))
	assert.True(t, acct.Available.IsZero())
}

func TestEngine_DisputeHoldsFunds(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)

	assert.True(t, acct.Available.IsZero())
	assert.True(t, acct.Held.Equal(dec("10")))
	assert.True(t, acct.Total().Equal(dec("10")))
	assert.False(t, acct.Locked)
}

func TestEngine_DisputeResolveRoundTrip(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("7.5")})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Resolve, Client: 1, TX: 1})
	require.NoError(t, err)

	assert.True(t, acct.Available.Equal(dec("7.5")))
	assert.True(t, acct.Held.IsZero())
	assert.False(t, acct.Locked)
}

func TestEngine_DisputeChargebackFreezesAccount(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("3")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("-3")))
	assert.True(t, acct.Held.Equal(dec("10")))

	acct, err = e.Apply(Instruction{Kind: Chargeback, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("-3")))
	assert.True(t, acct.Held.IsZero())
	assert.True(t, acct.Locked)

	var frozen *AccountFrozenError
	_, err = e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 3, Amount: amt("1")})
	require.ErrorAs(t, err, &frozen)
	_, err = e.Apply(Instruction{Kind: Resolve, Client: 1, TX: 1})
	require.ErrorAs(t, err, &frozen)
}

func TestEngine_RedisputeAfterResolveIsNoOp(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("4")})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Resolve, Client: 1, TX: 1})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("4")))
	assert.True(t, acct.Held.IsZero())
}

func TestEngine_DoubleDisputeIsNoOp(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("4")})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.IsZero())
	assert.True(t, acct.Held.Equal(dec("4")))
}

func TestEngine_AmendmentOnUnknownTransactionIsNoOp(t *testing.T) {
	e := newTestEngine()

	for _, kind := range []InstructionKind{Dispute, Resolve, Chargeback} {
		acct, err := e.Apply(Instruction{Kind: kind, Client: 1, TX: 42})
		require.NoError(t, err)
		assert.True(t, acct.Available.IsZero())
		assert.True(t, acct.Held.IsZero())
		assert.False(t, acct.Locked)
	}
}

func TestEngine_AmendmentClientMismatchIsNoOp(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 2, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.IsZero())
	assert.True(t, acct.Held.IsZero())

	owner, ok := e.accounts.Get(1)
	require.True(t, ok)
	assert.True(t, owner.Available.Equal(dec("10")))
	assert.True(t, owner.Held.IsZero())
}

func TestEngine_ResolveAndChargebackRequireOpenDispute(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("5")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Resolve, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("5")))
	assert.True(t, acct.Held.IsZero())

	acct, err = e.Apply(Instruction{Kind: Chargeback, Client: 1, TX: 1})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("5")))
	assert.False(t, acct.Locked)
}

func TestEngine_DisputedWithdrawalHoldsFunds(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("10")})
	require.NoError(t, err)
	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2, Amount: amt("4")})
	require.NoError(t, err)

	acct, err := e.Apply(Instruction{Kind: Dispute, Client: 1, TX: 2})
	require.NoError(t, err)
	assert.True(t, acct.Available.Equal(dec("2")))
	assert.True(t, acct.Held.Equal(dec("4")))
}

func TestEngine_LazyAccountCreation(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Dispute, Client: 9, TX: 99})
	require.NoError(t, err)

	accounts := e.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, ClientID(9), accounts[0].Client)
	assert.True(t, accounts[0].Available.IsZero())
}

func TestEngine_ApplyReturnsDetachedView(t *testing.T) {
	e := newTestEngine()

	view, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1, Amount: amt("3")})
	require.NoError(t, err)

	view.Available = dec("1000000")
	view.Locked = true

	acct, ok := e.accounts.Get(1)
	require.True(t, ok)
	assert.True(t, acct.Available.Equal(dec("3")))
	assert.False(t, acct.Locked)
}

func TestEngine_UnknownKindRejected(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: "transfer", Client: 1, TX: 1})
	require.Error(t, err)
}

func TestEngine_MissingAmountRejected(t *testing.T) {
	e := newTestEngine()

	_, err := e.Apply(Instruction{Kind: Deposit, Client: 1, TX: 1})
	require.Error(t, err)
	_, err = e.Apply(Instruction{Kind: Withdrawal, Client: 1, TX: 2})
	require.Error(t, err)

	accounts := e.Accounts()
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Available.IsZero())
}
