package bank

import (
	"fmt"
	"log/slog"
)

// Engine replays transaction instructions against an account book and a
// ledger. It owns both exclusively: no other component mutates account or
// transaction state.
//
// Instructions referencing transactions that never existed, belong to another
// client, or are not in a disputable state are operationally expected in an
// untrusted stream. They leave all state untouched and are reported through
// the logger rather than as errors.
type Engine struct {
	accounts *AccountBook
	ledger   *Ledger
	log      *slog.Logger
}

// NewEngine creates an engine with empty storage. A nil logger falls back to
// the process default.
func NewEngine(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		accounts: NewAccountBook(),
		ledger:   NewLedger(),
		log:      log,
	}
}

// Apply processes a single instruction, mutating at most the account and
// ledger entry it names. On success it returns a read view of the affected
// account after mutation. Validation happens before any mutation: the
// account is resolved (created lazily), frozen accounts reject everything,
// and negative amounts are rejected regardless of kind.
func (e *Engine) Apply(in Instruction) (Account, error) {
	acct := e.accounts.GetOrCreate(in.Client)

	if acct.Locked {
		return Account{}, &AccountFrozenError{Client: in.Client}
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return Account{}, &NegativeAmountError{Client: in.Client, TX: in.TX, Amount: *in.Amount}
	}

	var err error
	switch in.Kind {
	case Deposit:
		err = e.deposit(acct, in)
	case Withdrawal:
		err = e.withdraw(acct, in)
	case Dispute:
		e.dispute(acct, in)
	case Resolve:
		e.resolve(acct, in)
	case Chargeback:
		e.chargeback(acct, in)
	default:
		err = fmt.Errorf("unknown instruction kind %q", in.Kind)
	}
	if err != nil {
		return Account{}, err
	}

	return *acct, nil
}

// Accounts returns a snapshot of every account the engine has seen. Order is
// unspecified.
func (e *Engine) Accounts() []Account {
	return e.accounts.All()
}

func (e *Engine) deposit(acct *Account, in Instruction) error {
	if in.Amount == nil {
		return fmt.Errorf("deposit instruction for tx %d carries no amount", in.TX)
	}
	if _, ok := e.ledger.Get(in.TX); ok {
		return &DuplicateTransactionError{Client: in.Client, TX: in.TX}
	}

	acct.Available = acct.Available.Add(*in.Amount)
	e.ledger.Insert(NewTransaction(in.Client, in.TX, KindDeposit, *in.Amount))
	return nil
}

func (e *Engine) withdraw(acct *Account, in Instruction) error {
	if in.Amount == nil {
		return fmt.Errorf("withdrawal instruction for tx %d carries no amount", in.TX)
	}
	if _, ok := e.ledger.Get(in.TX); ok {
		return &DuplicateTransactionError{Client: in.Client, TX: in.TX}
	}
	if in.Amount.GreaterThan(acct.Available) {
		return &InsufficientFundsError{
			Client:    in.Client,
			TX:        in.TX,
			Requested: *in.Amount,
			Available: acct.Available,
		}
	}

	acct.Available = acct.Available.Sub(*in.Amount)
	e.ledger.Insert(NewTransaction(in.Client, in.TX, KindWithdrawal, *in.Amount))
	return nil
}

// dispute moves the referenced transaction's amount from available to held.
// Only a transaction with no prior amendments can enter dispute: a second
// dispute while one is open would double the hold, and a transaction already
// resolved or charged back stays settled.
func (e *Engine) dispute(acct *Account, in Instruction) {
	txn, ok := e.lookup(in)
	if !ok {
		return
	}
	if txn.Amended() {
		e.log.Warn("dispute dropped: transaction not disputable",
			"client", in.Client, "tx", in.TX)
		return
	}

	acct.Available = acct.Available.Sub(txn.Amount)
	acct.Held = acct.Held.Add(txn.Amount)
	txn.Amend(AmendmentDispute)
}

// resolve releases a held amount back to available, closing an open dispute.
func (e *Engine) resolve(acct *Account, in Instruction) {
	txn, ok := e.lookup(in)
	if !ok {
		return
	}
	if !txn.IsDisputed() {
		e.log.Warn("resolve dropped: transaction not in dispute",
			"client", in.Client, "tx", in.TX)
		return
	}

	acct.Available = acct.Available.Add(txn.Amount)
	acct.Held = acct.Held.Sub(txn.Amount)
	txn.Amend(AmendmentResolve)
}

// chargeback withdraws a held amount entirely and freezes the account. This
// is the terminal state of the dispute lifecycle.
func (e *Engine) chargeback(acct *Account, in Instruction) {
	txn, ok := e.lookup(in)
	if !ok {
		return
	}
	if !txn.IsDisputed() {
		e.log.Warn("chargeback dropped: transaction not in dispute",
			"client", in.Client, "tx", in.TX)
		return
	}

	acct.Held = acct.Held.Sub(txn.Amount)
	txn.Amend(AmendmentChargeback)
	acct.Locked = true
}

// lookup resolves the transaction an amendment instruction references.
// A missing transaction or one recorded against a different client is
// reported and dropped.
func (e *Engine) lookup(in Instruction) (*Transaction, bool) {
	txn, ok := e.ledger.Get(in.TX)
	if !ok {
		e.log.Warn("amendment dropped: unknown transaction",
			"kind", in.Kind, "client", in.Client, "tx", in.TX)
		return nil, false
	}
	if txn.Client != in.Client {
		e.log.Warn("amendment dropped: client mismatch",
			"kind", in.Kind, "client", in.Client, "tx", in.TX, "owner", txn.Client)
		return nil, false
	}
	return txn, true
}
