// Package stream drives the instruction loop: decode one record, apply it,
// report failures, never halt on a bad record.
package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/example/payments-engine/internal/bank"
	"github.com/example/payments-engine/internal/csvio"
	"github.com/example/payments-engine/pkg/audit"
)

// Stats summarizes one processing run.
type Stats struct {
	Applied   int
	Rejected  int
	Malformed int
}

// Processor feeds decoded instructions into the engine one at a time, in
// input order. Malformed records and rejected instructions are logged and
// skipped; every applied instruction is appended to the audit chain.
type Processor struct {
	engine *bank.Engine
	log    *slog.Logger
	audit  *audit.ChainLogger
}

// NewProcessor creates a processor. A nil logger falls back to the process
// default; a nil chain logger disables audit recording.
func NewProcessor(engine *bank.Engine, log *slog.Logger, chain *audit.ChainLogger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{engine: engine, log: log, audit: chain}
}

// Run consumes the reader until EOF. It returns an error only for
// unrecoverable stream failures; per-record problems are logged and counted.
func (p *Processor) Run(r *csvio.Reader) (Stats, error) {
	var stats Stats

	for {
		in, err := r.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		var recErr *csvio.RecordError
		if errors.As(err, &recErr) {
			stats.Malformed++
			p.log.Warn("skipping malformed record", "line", recErr.Line, "error", recErr.Err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("reading instruction stream: %w", err)
		}

		if _, err := p.engine.Apply(in); err != nil {
			stats.Rejected++
			p.log.Warn("instruction rejected",
				"kind", in.Kind, "client", in.Client, "tx", in.TX, "error", err)
			p.record("rejected", in)
			continue
		}

		stats.Applied++
		p.record("applied", in)
	}
}

func (p *Processor) record(outcome string, in bank.Instruction) {
	if p.audit == nil {
		return
	}
	payload := fmt.Sprintf("%s %s client=%d tx=%d", outcome, in.Kind, in.Client, in.TX)
	if in.Amount != nil {
		payload += " amount=" + in.Amount.StringFixed(bank.MoneyScale)
	}
	p.audit.Append(payload)
}
