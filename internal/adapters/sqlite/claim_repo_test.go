package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/example/queuebot/internal/adapters/sqlite"
)

func TestClaimRepository_TryCreate(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.TryCreate(ctx, "msg-1", "mod-a")
	if err != nil {
		t.Fatalf("TryCreate failed: %v", err)
	}
	if !created {
		t.Fatal("expected first TryCreate to report created")
	}

	created, err = repo.TryCreate(ctx, "msg-1", "mod-b")
	if err != nil {
		t.Fatalf("second TryCreate failed: %v", err)
	}
	if created {
		t.Fatal("expected second TryCreate to report not created")
	}

	// The original claimant must survive the losing attempt
	claimant, ok, err := repo.Get(ctx, "msg-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || claimant != "mod-a" {
		t.Errorf("expected claimant mod-a, got %q (ok=%v)", claimant, ok)
	}
}

func TestClaimRepository_TryCreateConcurrent(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	const attempts = 8
	results := make([]bool, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := repo.TryCreate(ctx, "msg-1", "mod-a")
			if err != nil {
				t.Errorf("TryCreate failed: %v", err)
				return
			}
			results[i] = created
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, created := range results {
		if created {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winning claim, got %d", wins)
	}
}

func TestClaimRepository_GetMissing(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "msg-none")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing claim")
	}
}

func TestClaimRepository_Delete(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.TryCreate(ctx, "msg-1", "mod-a"); err != nil {
		t.Fatalf("TryCreate failed: %v", err)
	}
	if err := repo.Delete(ctx, "msg-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, ok, err := repo.Get(ctx, "msg-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected claim gone after delete")
	}

	// Deleting a missing claim is not an error
	if err := repo.Delete(ctx, "msg-1"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestClaimRepository_DeleteAll(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"msg-1", "msg-2", "msg-3"} {
		if _, err := repo.TryCreate(ctx, id, "mod-a"); err != nil {
			t.Fatalf("TryCreate failed: %v", err)
		}
	}

	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	claims, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("expected no claims after DeleteAll, got %d", len(claims))
	}
}

func TestClaimRepository_List(t *testing.T) {
	repo := sqlite.NewClaimRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.TryCreate(ctx, "msg-1", "mod-a"); err != nil {
		t.Fatalf("TryCreate failed: %v", err)
	}
	if _, err := repo.TryCreate(ctx, "msg-2", "mod-b"); err != nil {
		t.Fatalf("TryCreate failed: %v", err)
	}

	claims, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	for _, c := range claims {
		if c.MessageID == "" || c.ClaimantID == "" || c.CreatedAt == "" {
			t.Errorf("incomplete claim record: %+v", c)
		}
	}
}
