package render

import (
	"math/rand"
	"testing"

	"github.com/toparvion/analogtail/internal/analog"
)

func plain(text string) analog.Batch {
	return analog.Batch{Lines: []analog.LogLine{{Style: analog.StylePlain, Text: text}}}
}

func composite(ts int64, text string) analog.Batch {
	return analog.Batch{Timestamp: &ts, Lines: []analog.LogLine{{Style: analog.StyleInfo, Text: text}}}
}

func texts(recs []*Record) []string {
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Batch.Lines[0].Text)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueue_PushCompositeOrdersByTimestamp(t *testing.T) {
	q := NewQueue()
	q.Push(composite(10, "a"))
	q.Push(composite(30, "c"))
	q.Push(composite(20, "b"))
	q.Push(composite(5, "first"))
	q.Push(composite(30, "c2"))
	q.Push(composite(40, "d"))

	want := []string{"first", "a", "b", "c", "c2", "d"}
	if got := texts(q.Records()); !equalStrings(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if q.Pending() != 6 {
		t.Fatalf("Pending = %d, want 6", q.Pending())
	}
	if got := texts(q.reveal()); !equalStrings(got, []string{"a", "c", "b", "first", "c2", "d"}) {
		t.Fatalf("reveal order = %v, want arrival order", got)
	}
}

func TestQueue_CompositeOrderingHoldsForRandomArrivals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := NewQueue()
	for i := 0; i < 500; i++ {
		q.Push(composite(rng.Int63n(100), "x"))
		if i%37 == 0 {
			q.Evict(KindComposite, 50, 20)
		}
	}
	recs := q.Records()
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Timestamp > recs[i].Timestamp {
			t.Fatalf("record %d timestamp %d follows %d", i, recs[i].Timestamp, recs[i-1].Timestamp)
		}
	}
}

func TestQueue_EqualTimestampsKeepArrivalOrder(t *testing.T) {
	q := NewQueue()
	for _, s := range []string{"1", "2", "3"} {
		q.Push(composite(7, s))
	}
	if got := texts(q.Records()); !equalStrings(got, []string{"1", "2", "3"}) {
		t.Fatalf("order = %v, want [1 2 3]", got)
	}
}

func TestQueue_PlainAppends(t *testing.T) {
	q := NewQueue()
	q.Push(plain("a"))
	q.Push(plain("b"))
	if got := texts(q.Records()); !equalStrings(got, []string{"a", "b"}) {
		t.Fatalf("order = %v, want [a b]", got)
	}
	if q.Count(KindPlain) != 2 || q.Count(KindComposite) != 0 {
		t.Fatalf("counts = %d/%d, want 2/0", q.Count(KindPlain), q.Count(KindComposite))
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Push(plain("a"))
	q.Push(composite(1, "b"))
	q.Clear()
	if !q.Empty() || q.Pending() != 0 || q.Count(KindPlain) != 0 || q.Count(KindComposite) != 0 {
		t.Fatalf("queue not empty after Clear: len=%d pending=%d", q.Len(), q.Pending())
	}
}

func TestQueue_EvictRemovesOldestOfKindOnly(t *testing.T) {
	q := NewQueue()
	q.Push(plain("p1"))
	q.Push(composite(1, "c1"))
	q.Push(plain("p2"))
	q.Push(plain("p3"))
	q.Push(composite(2, "c2"))

	if n := q.Evict(KindPlain, 3, 2); n != 0 {
		t.Fatalf("Evict at threshold removed %d, want 0", n)
	}
	if n := q.Evict(KindPlain, 2, 2); n != 2 {
		t.Fatalf("Evict removed %d, want 2", n)
	}
	if got := texts(q.Records()); !equalStrings(got, []string{"c1", "c2", "p3"}) {
		t.Fatalf("after eviction = %v, want [c1 c2 p3]", got)
	}

	// evicted records never get revealed; the rest come out in arrival order
	if got := texts(q.reveal()); !equalStrings(got, []string{"c1", "p3", "c2"}) {
		t.Fatalf("revealed = %v, want [c1 p3 c2]", got)
	}
}
