package search

import (
	"testing"
	"time"

	"github.com/avolkov/orchat/internal/domain"
)

func msgs() []domain.Message {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Message{
		{ID: 1, Timestamp: base, UserMessage: "how do goroutines work", AIResponse: "goroutines are lightweight threads managed by the runtime"},
		{ID: 2, Timestamp: base.Add(time.Minute), UserMessage: "best pasta recipe", AIResponse: "boil water, add salt, cook the pasta al dente"},
		{ID: 3, Timestamp: base.Add(2 * time.Minute), UserMessage: "explain channels", AIResponse: "channels let goroutines communicate safely"},
	}
}

func TestTopK_RanksByOverlap(t *testing.T) {
	idx := NewFromMessages(msgs())

	got := idx.TopK("goroutines channels", 3)
	if len(got) == 0 {
		t.Fatalf("expected results")
	}
	// Exchange 3 mentions both query terms; it must outrank the others.
	if got[0].Message.ID != 3 {
		t.Fatalf("top result ID = %d; want 3", got[0].Message.ID)
	}
	for _, r := range got {
		if r.Message.ID == 2 {
			t.Fatalf("pasta exchange matched a goroutine query")
		}
		if r.Score <= 0 || r.Score > 1 {
			t.Fatalf("score %v out of (0, 1]", r.Score)
		}
	}
}

func TestTopK_Deterministic(t *testing.T) {
	idx := NewFromMessages(msgs())

	a := idx.TopK("goroutines", 5)
	b := idx.TopK("goroutines", 5)
	if len(a) != len(b) {
		t.Fatalf("result counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Message.ID != b[i].Message.ID || a[i].Score != b[i].Score {
			t.Fatalf("results differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTopK_EmptyInputs(t *testing.T) {
	idx := NewFromMessages(msgs())
	if got := idx.TopK("", 3); got != nil {
		t.Fatalf("empty query: expected nil, got %v", got)
	}
	if got := idx.TopK("   ", 3); got != nil {
		t.Fatalf("blank query: expected nil, got %v", got)
	}

	empty := NewFromMessages(nil)
	if got := empty.TopK("anything", 3); got != nil {
		t.Fatalf("empty index: expected nil, got %v", got)
	}
}

func TestTopK_KDefaultsAndCaps(t *testing.T) {
	idx := NewFromMessages(msgs())

	if got := idx.TopK("goroutines channels pasta", 0); len(got) == 0 || len(got) > 3 {
		t.Fatalf("k=0 should default, got %d results", len(got))
	}
	if got := idx.TopK("goroutines", 100); len(got) > 3 {
		t.Fatalf("k beyond corpus returned %d results", len(got))
	}
}

func TestStopwordsAndMaxDocs(t *testing.T) {
	idx := NewFromMessages(msgs(), WithStopwords([]string{"goroutines"}))
	if got := idx.TopK("goroutines", 3); got != nil {
		t.Fatalf("stopword-only query must match nothing, got %d", len(got))
	}

	capped := NewFromMessages(msgs(), WithMaxDocs(1))
	if got := capped.TopK("channels", 3); got != nil {
		t.Fatalf("exchange beyond maxDocs should not be indexed, got %d", len(got))
	}
}
