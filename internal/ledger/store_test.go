package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"waveforge/internal/ledger"
	"waveforge/internal/testsupport"
)

func TestUpsertInsertsAndFetches(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	item, err := store.Upsert(ctx, "run1", "0xabc", "0x12345678")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != ledger.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if item.Seed != "0x12345678" {
		t.Fatalf("unexpected seed: %q", item.Seed)
	}
}

func TestUpsertPreservesProgress(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	item, err := store.Upsert(ctx, "run1", "0xabc", "0x12345678")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	item.Advance(ledger.StatusSegmentReady)
	item.SegmentFile = "/out/wav/run_run1/0xabc/0xabc-segment.wav"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Re-running stage 1 upserts the same row; progress must survive.
	again, err := store.Upsert(ctx, "run1", "0xabc", "0x12345678")
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if again.ID != item.ID {
		t.Fatalf("expected same row, got %d != %d", again.ID, item.ID)
	}
	if again.Status != ledger.StatusSegmentReady {
		t.Fatalf("status reset by upsert: %s", again.Status)
	}
	if again.SegmentFile == "" {
		t.Fatal("segment path reset by upsert")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	item, err := store.Get(context.Background(), "run1", "0xmissing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil for missing item, got %#v", item)
	}
}

func TestListRunOrdering(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	hashes := []string{"0xaaa", "0xbbb", "0xccc"}
	for i, hash := range hashes {
		if _, err := store.Upsert(ctx, "run1", hash, fmt.Sprintf("0x0000000%d", i+1)); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	// Another run must not leak into the listing.
	if _, err := store.Upsert(ctx, "run2", "0xddd", "0x00000004"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	items, err := store.ListRun(ctx, "run1")
	if err != nil {
		t.Fatalf("ListRun failed: %v", err)
	}
	if len(items) != len(hashes) {
		t.Fatalf("expected %d items, got %d", len(hashes), len(items))
	}
	for i, item := range items {
		if item.TxHash != hashes[i] {
			t.Fatalf("position %d: got %s, want %s", i, item.TxHash, hashes[i])
		}
	}
}

func TestMarkFailedAndStats(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	ctx := context.Background()

	ok, err := store.Upsert(ctx, "run1", "0xgood", "0x00000001")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	bad, err := store.Upsert(ctx, "run1", "0xbad", "0x00000002")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	ok.Advance(ledger.StatusVideoReady)
	if err := store.Update(ctx, ok); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	bad.SetFailed("segment generation timed out")
	if err := store.Update(ctx, bad); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := store.Stats(ctx, "run1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[ledger.StatusVideoReady] != 1 || stats[ledger.StatusFailed] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	fetched, err := store.Get(ctx, "run1", "0xbad")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.ErrorMessage != "segment generation timed out" {
		t.Fatalf("error message not persisted: %q", fetched.ErrorMessage)
	}

	// Advancing out of failure clears the message.
	fetched.Advance(ledger.StatusSegmentReady)
	if err := store.Update(ctx, fetched); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	cleared, err := store.Get(ctx, "run1", "0xbad")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cleared.ErrorMessage != "" {
		t.Fatalf("expected cleared error message, got %q", cleared.ErrorMessage)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ledger.ParseStatus(" Frames_Ready "); !ok || status != ledger.StatusFramesReady {
		t.Fatalf("ParseStatus normalized = %q ok=%v", status, ok)
	}
	if _, ok := ledger.ParseStatus("nonsense"); ok {
		t.Fatal("expected unknown status to fail")
	}
}
