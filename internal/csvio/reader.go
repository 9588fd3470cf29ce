// Package csvio decodes transaction instructions from and encodes account
// snapshots to record-oriented CSV text.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/payments-engine/internal/bank"
)

// RecordError marks a failure confined to a single input record. Callers are
// expected to log it and continue with the next record; any other error from
// Read is unrecoverable.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record at line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Reader decodes transaction instructions from CSV input. It tolerates
// surrounding whitespace, a missing trailing amount column for amendment
// kinds, blank lines and '#' comment lines, and skips a leading header row.
type Reader struct {
	csv        *csv.Reader
	headerSeen bool
}

// NewReader creates a reader for a `type, client, tx, amount` instruction
// stream.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return &Reader{csv: cr}
}

// Read returns the next instruction from the stream, io.EOF once exhausted,
// or a *RecordError for a malformed record.
func (r *Reader) Read() (bank.Instruction, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return bank.Instruction{}, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return bank.Instruction{}, &RecordError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return bank.Instruction{}, err
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if !r.headerSeen && len(record) > 0 && strings.EqualFold(record[0], "type") {
			r.headerSeen = true
			continue
		}
		r.headerSeen = true

		line, _ := r.csv.FieldPos(0)
		in, err := decodeInstruction(record)
		if err != nil {
			return bank.Instruction{}, &RecordError{Line: line, Err: err}
		}
		return in, nil
	}
}

func decodeInstruction(record []string) (bank.Instruction, error) {
	if len(record) < 3 {
		return bank.Instruction{}, fmt.Errorf("expected at least 3 fields, got %d", len(record))
	}

	kind := bank.InstructionKind(strings.ToLower(record[0]))
	if !kind.Valid() {
		return bank.Instruction{}, fmt.Errorf("unknown instruction type %q", record[0])
	}

	client, err := strconv.ParseUint(record[1], 10, 16)
	if err != nil {
		return bank.Instruction{}, fmt.Errorf("invalid client id %q: %w", record[1], err)
	}

	tx, err := strconv.ParseUint(record[2], 10, 32)
	if err != nil {
		return bank.Instruction{}, fmt.Errorf("invalid transaction id %q: %w", record[2], err)
	}

	in := bank.Instruction{
		Kind:   kind,
		Client: bank.ClientID(client),
		TX:     bank.TransactionID(tx),
	}

	if len(record) >= 4 && record[3] != "" {
		amount, err := decimal.NewFromString(record[3])
		if err != nil {
			return bank.Instruction{}, fmt.Errorf("invalid amount %q: %w", record[3], err)
		}
		in.Amount = &amount
	}

	if kind.RequiresAmount() && in.Amount == nil {
		return bank.Instruction{}, fmt.Errorf("%s instruction is missing an amount", kind)
	}

	return in, nil
}
