package diag

import "crust/internal/source"

// repeatKey identifies a problem by what and where; the message is not part of
// the key since recovery may describe the same spot twice.
type repeatKey struct {
	code Code
	span source.Span
}

// DedupReporter forwards only the first diagnostic with a given code and
// primary span. Parser recovery can stall on one token and report it more
// than once; the repeats are counted and dropped.
type DedupReporter struct {
	next       Reporter
	seen       map[repeatKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[repeatKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := repeatKey{code: code, span: primary}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed reports how many repeats were dropped.
func (r *DedupReporter) Suppressed() int { return r.suppressed }
