package render

import (
	"slices"

	"github.com/toparvion/analogtail/internal/analog"
)

// Kind separates records for eviction purposes.
type Kind int

const (
	KindPlain Kind = iota
	KindComposite
)

func (k Kind) String() string {
	if k == KindComposite {
		return "composite"
	}
	return "plain"
}

// Record is one batch placed in the output, hidden until the renderer reveals it.
type Record struct {
	ID        uint64
	Kind      Kind
	Timestamp int64
	Batch     analog.Batch
	Revealed  bool

	removed bool
}

// Queue holds the output list of a view, top to bottom, and the FIFO of records
// waiting to be revealed. It must only be used from the event loop.
type Queue struct {
	nextID  uint64
	output  []*Record
	pending []*Record
	counts  [2]int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push routes b by its variant.
func (q *Queue) Push(b analog.Batch) *Record {
	if b.Composite() {
		return q.PushComposite(b)
	}
	return q.PushPlain(b)
}

// PushPlain appends a hidden record at the end of the output.
func (q *Queue) PushPlain(b analog.Batch) *Record {
	rec := q.newRecord(KindPlain, b)
	q.output = append(q.output, rec)
	q.pending = append(q.pending, rec)
	return rec
}

// PushComposite inserts a hidden record right after the latest composite record whose
// timestamp does not exceed b's, scanning from the bottom. Without such a record it
// goes to the front when composite records exist and to the end otherwise, so equal
// timestamps keep arrival order.
func (q *Queue) PushComposite(b analog.Batch) *Record {
	rec := q.newRecord(KindComposite, b)
	rec.Timestamp = b.At()

	pos := len(q.output)
	if q.counts[KindComposite] > 0 {
		pos = 0
		for i := len(q.output) - 1; i >= 0; i-- {
			cur := q.output[i]
			if cur.Kind == KindComposite && cur.Timestamp <= rec.Timestamp {
				pos = i + 1
				break
			}
		}
	}
	q.output = slices.Insert(q.output, pos, rec)
	q.pending = append(q.pending, rec)
	return rec
}

func (q *Queue) newRecord(kind Kind, b analog.Batch) *Record {
	q.nextID++
	q.counts[kind]++
	return &Record{ID: q.nextID, Kind: kind, Batch: b}
}

// Clear drops every record, revealed or not.
func (q *Queue) Clear() {
	q.output = nil
	q.pending = nil
	q.counts = [2]int{}
}

// Len is the number of records in the output, hidden ones included.
func (q *Queue) Len() int {
	return len(q.output)
}

// Empty reports whether the output holds no records at all.
func (q *Queue) Empty() bool {
	return len(q.output) == 0
}

// Count is the number of records of kind in the output.
func (q *Queue) Count(kind Kind) int {
	return q.counts[kind]
}

// Pending is the number of records waiting to be revealed.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Records returns the output top to bottom, hidden records included.
func (q *Queue) Records() []*Record {
	return q.output
}

// Visible returns the revealed records top to bottom.
func (q *Queue) Visible() []*Record {
	out := make([]*Record, 0, len(q.output))
	for _, rec := range q.output {
		if rec.Revealed {
			out = append(out, rec)
		}
	}
	return out
}

// Evict removes the oldest depth records of kind once their number exceeds threshold.
// It returns how many were removed.
func (q *Queue) Evict(kind Kind, threshold, depth int) int {
	if q.counts[kind] <= threshold || depth <= 0 {
		return 0
	}
	removed := 0
	q.output = slices.DeleteFunc(q.output, func(rec *Record) bool {
		if removed >= depth || rec.Kind != kind {
			return false
		}
		rec.removed = true
		removed++
		return true
	})
	q.counts[kind] -= removed
	return removed
}

// reveal marks all pending records visible in FIFO order and returns them.
func (q *Queue) reveal() []*Record {
	if len(q.pending) == 0 {
		return nil
	}
	out := make([]*Record, 0, len(q.pending))
	for _, rec := range q.pending {
		if rec.removed {
			continue
		}
		rec.Revealed = true
		out = append(out, rec)
	}
	q.pending = nil
	return out
}
