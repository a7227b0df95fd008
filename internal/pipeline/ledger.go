package pipeline

import (
	"strings"
	"sync"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/types"
)

// Ledger is the ordered, append-only score summary of one run. It lives only
// for the duration of that run.
type Ledger struct {
	mu      sync.Mutex
	entries []types.LedgerEntry
}

var _ interfaces.Ledger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(title string, bull, bear int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, types.LedgerEntry{Title: title, BullScore: bull, BearScore: bear})
}

// Entries returns a copy of the entries in insertion order.
func (l *Ledger) Entries() []types.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Render produces one "- title (bull:N vs bear:M)" line per entry.
func (l *Ledger) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.Line())
	}
	return sb.String()
}
