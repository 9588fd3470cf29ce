package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/example/payments-engine/internal/bank"
)

// Writer encodes final account snapshots as CSV, one row per account, with
// every monetary value rendered with exactly bank.MoneyScale fractional
// digits.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a snapshot writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the header and one row per account. Row order follows
// the input slice and is otherwise unspecified.
func (w *Writer) WriteAccounts(accounts []bank.Account) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for i := range accounts {
		acct := &accounts[i]
		record := []string{
			strconv.FormatUint(uint64(acct.Client), 10),
			acct.Available.StringFixed(bank.MoneyScale),
			acct.Held.StringFixed(bank.MoneyScale),
			acct.Total().StringFixed(bank.MoneyScale),
			strconv.FormatBool(acct.Locked),
		}
		if err := w.csv.Write(record); err != nil {
			return err
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}
