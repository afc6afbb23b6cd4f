package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lesmnif/echoes/internal/data/repos/testutil"
	"github.com/lesmnif/echoes/internal/types"
)

func TestGenerationRepoRecentSummaries(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	repo := NewGenerationRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	summaries := []string{"oldest", "middle", "", "newest"}
	for i, s := range summaries {
		gen := &types.AIGeneration{
			UserID:         userID,
			PromptSent:     "prompt",
			AIResponse:     datatypes.JSON([]byte(`{}`)),
			ModelUsed:      "gpt-4.1",
			GenerationType: "motivational_post",
			Summary:        s,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, tx, gen); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	got, err := repo.RecentSummaries(ctx, tx, userID, 2)
	if err != nil {
		t.Fatalf("RecentSummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d: %v", len(got), got)
	}
	if got[0] != "newest" || got[1] != "middle" {
		t.Fatalf("expected [newest middle] (empty summaries skipped), got %v", got)
	}

	all, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 generations, got %d", len(all))
	}
	if !all[0].CreatedAt.After(all[len(all)-1].CreatedAt) {
		t.Fatalf("expected descending created_at order")
	}
}

func TestIdentityRepoUpsert(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	repo := NewIdentityRepo(gdb, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.Upsert(ctx, tx, userID, "I build things."); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, tx, userID, "I build better things."); err != nil {
		t.Fatalf("Upsert second: %v", err)
	}

	row, err := repo.Get(ctx, tx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.IdentityText != "I build better things." {
		t.Fatalf("expected upsert to replace identity text, got %q", row.IdentityText)
	}
}
