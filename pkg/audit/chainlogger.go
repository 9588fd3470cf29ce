// Package audit provides a tamper-evident, hash-chained record of the
// instructions a run has applied.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single link in the audit chain. Hash covers the entry's own
// fields plus the previous entry's hash, so any rewrite of history breaks
// verification.
type Entry struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	Payload      string `json:"payload"`
	Hash         string `json:"hash"`
}

// ChainLogger accumulates hash-chained entries, one per recorded event.
type ChainLogger struct {
	mu           sync.Mutex
	previousHash string
	entries      []*Entry
}

// NewChainLogger creates a chain logger anchored at a zero hash.
func NewChainLogger() *ChainLogger {
	return &ChainLogger{
		previousHash: strings.Repeat("0", 64),
	}
}

// Append records a new entry at the end of the chain and returns it.
func (c *ChainLogger) Append(payload string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		PreviousHash: c.previousHash,
		Payload:      payload,
	}
	entry.Hash = entryHash(entry)

	c.previousHash = entry.Hash
	c.entries = append(c.entries, entry)
	return entry
}

// Entries returns the recorded chain in append order.
func (c *ChainLogger) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// Len returns the number of recorded entries.
func (c *ChainLogger) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// VerifyChain checks that a slice of entries forms an unbroken, correctly
// hashed chain.
func VerifyChain(entries []*Entry) bool {
	for i, entry := range entries {
		if i > 0 && entry.PreviousHash != entries[i-1].Hash {
			return false
		}
		if entryHash(entry) != entry.Hash {
			return false
		}
	}
	return true
}

func entryHash(e *Entry) string {
	input := fmt.Sprintf("%s|%s|%s|%s", e.ID, e.PreviousHash, e.Timestamp, e.Payload)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
