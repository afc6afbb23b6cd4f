package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lesmnif/echoes/internal/data/repos/testutil"
	"github.com/lesmnif/echoes/internal/types"
)

func TestJournalRepoUpsertByDate(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	repo := NewJournalRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	first := &types.JournalEntry{
		UserID:    userID,
		EntryDate: "2026-08-01",
		Content:   "first draft",
		WordCount: 2,
	}
	if err := repo.UpsertByDate(ctx, tx, first); err != nil {
		t.Fatalf("UpsertByDate: %v", err)
	}

	second := &types.JournalEntry{
		UserID:    userID,
		EntryDate: "2026-08-01",
		Title:     "revised",
		Content:   "second draft with more words",
		WordCount: 5,
	}
	if err := repo.UpsertByDate(ctx, tx, second); err != nil {
		t.Fatalf("UpsertByDate overwrite: %v", err)
	}

	other := &types.JournalEntry{
		UserID:    userID,
		EntryDate: "2026-08-02",
		Content:   "next day",
		WordCount: 2,
	}
	if err := repo.UpsertByDate(ctx, tx, other); err != nil {
		t.Fatalf("UpsertByDate next day: %v", err)
	}

	entries, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after same-date overwrite, got %d", len(entries))
	}
	if entries[0].EntryDate < entries[1].EntryDate {
		t.Fatalf("expected descending date order, got %q then %q", entries[0].EntryDate, entries[1].EntryDate)
	}
	for _, e := range entries {
		if e.EntryDate[:10] == "2026-08-01" && e.Content != "second draft with more words" {
			t.Fatalf("overwrite did not replace content: %q", e.Content)
		}
	}
}
