package bank

// AccountBook is keyed storage of accounts by client ID, populated lazily and
// never shrunk. No policy logic lives here; all decisions are the Engine's.
type AccountBook struct {
	accounts map[ClientID]*Account
}

// NewAccountBook creates an empty account book.
func NewAccountBook() *AccountBook {
	return &AccountBook{accounts: make(map[ClientID]*Account)}
}

// GetOrCreate returns the account for the client, inserting a zero-balance
// account on first reference.
func (b *AccountBook) GetOrCreate(client ClientID) *Account {
	acct, ok := b.accounts[client]
	if !ok {
		acct = newAccount(client)
		b.accounts[client] = acct
	}
	return acct
}

// Get returns the account for the client, or false if it was never seen.
func (b *AccountBook) Get(client ClientID) (*Account, bool) {
	acct, ok := b.accounts[client]
	return acct, ok
}

// All returns a snapshot copy of every account. Order is unspecified.
func (b *AccountBook) All() []Account {
	accounts := make([]Account, 0, len(b.accounts))
	for _, acct := range b.accounts {
		accounts = append(accounts, *acct)
	}
	return accounts
}

// Ledger is keyed storage of realized transactions by transaction ID.
// Entries are insert-only; amendments mutate entries in place via the
// returned pointer.
type Ledger struct {
	transactions map[TransactionID]*Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make(map[TransactionID]*Transaction)}
}

// Get returns the transaction with the given ID, or false if absent.
func (l *Ledger) Get(tx TransactionID) (*Transaction, bool) {
	txn, ok := l.transactions[tx]
	return txn, ok
}

// Insert stores a new transaction. It returns false, leaving the existing
// entry untouched, if the ID is already present.
func (l *Ledger) Insert(txn *Transaction) bool {
	if _, ok := l.transactions[txn.TX]; ok {
		return false
	}
	l.transactions[txn.TX] = txn
	return true
}
