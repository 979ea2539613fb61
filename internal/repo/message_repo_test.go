package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/avolkov/orchat/internal/domain"
)

func TestCreateMessage_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before := time.Now().UTC()
	if _, err := CreateMessage(ctx, db, "gpt-x", "hi", "hello", 5); err != nil {
		t.Fatalf("create: %v", err)
	}
	after := time.Now().UTC()

	got, err := ListRecentMessages(ctx, db, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	m := got[0]
	if m.Model != "gpt-x" || m.UserMessage != "hi" || m.AIResponse != "hello" || m.TokensUsed != 5 {
		t.Fatalf("unexpected row: %+v", m)
	}
	if m.Timestamp.Before(before.Add(-time.Second)) || m.Timestamp.After(after.Add(time.Second)) {
		t.Fatalf("timestamp %v outside call window [%v, %v]", m.Timestamp, before, after)
	}
}

func TestListRecentMessages_NewestFirstAndBounded(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := CreateMessage(ctx, db, "m", fmt.Sprintf("q%d", i), "a", i); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	got, err := ListRecentMessages(ctx, db, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	// Same-tick inserts must still come back newest first via the ID tiebreak.
	if got[0].UserMessage != "q4" || got[2].UserMessage != "q2" {
		t.Fatalf("wrong order: %q ... %q", got[0].UserMessage, got[2].UserMessage)
	}

	all, err := ListAllMessages(ctx, db)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 || all[0].UserMessage != "q0" || all[4].UserMessage != "q4" {
		t.Fatalf("ListAllMessages must be oldest first, got %d rows starting %q", len(all), all[0].UserMessage)
	}
}

func TestClearMessages_LeavesOtherTables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateMessage(ctx, db, "m", "q", "a", 1); err != nil {
		t.Fatalf("create message: %v", err)
	}
	if err := CreateAnalytics(ctx, db, &domain.AnalyticsRecord{Model: "m", MessageLength: 1, ResponseTime: 0.5, TokensUsed: 1}); err != nil {
		t.Fatalf("create analytics: %v", err)
	}
	if err := SaveCredential(ctx, db, "k", "h"); err != nil {
		t.Fatalf("save credential: %v", err)
	}

	if err := ClearMessages(ctx, db); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if n, err := CountMessages(ctx, db); err != nil || n != 0 {
		t.Fatalf("expected empty message log, got n=%d err=%v", n, err)
	}
	if recs, err := ListAnalytics(ctx, db); err != nil || len(recs) != 1 {
		t.Fatalf("analytics must survive history clear, got %d err=%v", len(recs), err)
	}
	if ok, _ := HasCredential(ctx, db); !ok {
		t.Fatalf("credential must survive history clear")
	}
}

func TestCreateMessage_ConcurrentWriters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	const writers = 2
	const perWriter = 100

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := CreateMessage(ctx, db, "m", fmt.Sprintf("w%d-%d", w, i), "a", 1); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	got, err := ListRecentMessages(ctx, db, writers*perWriter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != writers*perWriter {
		t.Fatalf("expected %d rows, got %d", writers*perWriter, len(got))
	}
	seen := make(map[string]struct{}, len(got))
	for _, m := range got {
		if m.Model != "m" || m.AIResponse != "a" {
			t.Fatalf("corrupted row: %+v", m)
		}
		if _, dup := seen[m.UserMessage]; dup {
			t.Fatalf("duplicate row %q", m.UserMessage)
		}
		seen[m.UserMessage] = struct{}{}
	}
}
