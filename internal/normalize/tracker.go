package normalize

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Tracker accumulates values that no alias table recognized, keyed by field
// name. It exists so the alias tables can be maintained from real traffic:
// run a batch, read the summary, add aliases. The caller owns the lifecycle
// and must Clear between batches; the transformer only records into it.
//
// Safe for concurrent use; the worker pool shares one transformer.
type Tracker struct {
	mu     sync.Mutex
	unseen map[string]map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{unseen: make(map[string]map[string]struct{})}
}

// Record notes an unmatched value under the given field. Empty values are
// ignored; long values are truncated so one junk listing cannot bloat memory.
func (t *Tracker) Record(field, value string) {
	if t == nil || value == "" {
		return
	}
	if len(value) > 100 {
		value = value[:100]
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.unseen[field]
	if !ok {
		set = make(map[string]struct{})
		t.unseen[field] = set
	}
	set[value] = struct{}{}
}

// Clear resets the tracker. Call at batch boundaries to avoid cross-batch
// contamination.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unseen = make(map[string]map[string]struct{})
}

// Unknown returns a sorted snapshot of the unmatched values per field.
func (t *Tracker) Unknown() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string][]string, len(t.unseen))
	for field, set := range t.unseen {
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		sort.Strings(values)
		out[field] = values
	}
	return out
}

// LogSummary writes a per-field count with a small sample of unmatched values.
func (t *Tracker) LogSummary(log *slog.Logger) {
	unknown := t.Unknown()
	if len(unknown) == 0 {
		log.Info("no unknown values encountered")
		return
	}
	fields := make([]string, 0, len(unknown))
	for f := range unknown {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, field := range fields {
		values := unknown[field]
		sample := values
		if len(sample) > 5 {
			sample = sample[:5]
		}
		msg := strings.Join(sample, ", ")
		if rest := len(values) - len(sample); rest > 0 {
			msg = fmt.Sprintf("%s ... and %d more", msg, rest)
		}
		log.Warn("unknown values", "field", field, "count", len(values), "sample", msg)
	}
}
