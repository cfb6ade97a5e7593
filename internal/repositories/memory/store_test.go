package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRepositoryRanking(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	seed := []*models.User{
		{Name: "Arya", TotalPoints: 650},
		{Name: "Tie A", TotalPoints: 100},
		{Name: "Pavan", TotalPoints: 950},
		{Name: "Tie B", TotalPoints: 100},
	}
	if err := users.CreateMany(ctx, seed); err != nil {
		t.Fatalf("CreateMany failed: %v", err)
	}

	ranked, err := users.FindAllByPoints(ctx)
	if err != nil {
		t.Fatalf("FindAllByPoints failed: %v", err)
	}
	if len(ranked) != len(seed) {
		t.Fatalf("Expected %d users, got %d", len(seed), len(ranked))
	}

	wantOrder := []string{"Pavan", "Arya", "Tie A", "Tie B"}
	for i, name := range wantOrder {
		if ranked[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, ranked[i].Name)
		}
	}
}

func TestUserRepositoryIncrementPoints(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := &models.User{Name: "Kohli", TotalPoints: 120}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := users.IncrementPoints(ctx, user.ID, 7)
	if err != nil {
		t.Fatalf("IncrementPoints failed: %v", err)
	}
	if updated.TotalPoints != 127 {
		t.Errorf("Expected 127 points, got %d", updated.TotalPoints)
	}

	if _, err := users.IncrementPoints(ctx, primitive.NewObjectID(), 3); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := users.IncrementPoints(ctx, user.ID, 0); err == nil {
		t.Error("Expected error for non-positive increment")
	}
}

func TestUserRepositoryConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := &models.User{Name: "Sriram"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := users.IncrementPoints(ctx, user.ID, 2); err != nil {
				t.Errorf("IncrementPoints failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.TotalPoints != workers*2 {
		t.Errorf("Expected %d points, got %d", workers*2, got.TotalPoints)
	}
}

func TestReturnedUsersAreCopies(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	user := &models.User{Name: "Arya", TotalPoints: 10}
	_ = users.Create(ctx, user)

	got, _ := users.FindByID(ctx, user.ID)
	got.TotalPoints = 9999

	again, _ := users.FindByID(ctx, user.ID)
	if again.TotalPoints != 10 {
		t.Errorf("Expected stored points to be unaffected, got %d", again.TotalPoints)
	}
}

func TestHistoryRepositoryFindRecent(t *testing.T) {
	ctx := context.Background()
	history := NewStore().History()
	userID := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		entry := &models.History{UserID: userID, AwardedPoints: i%10 + 1, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		if err := history.Create(ctx, entry); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	recent, err := history.FindRecent(ctx, 10)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("Expected 10 entries, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp.After(recent[i-1].Timestamp) {
			t.Errorf("Entries not descending at %d: %v after %v", i, recent[i].Timestamp, recent[i-1].Timestamp)
		}
	}
	if !recent[0].Timestamp.Equal(base.Add(14 * time.Minute)) {
		t.Errorf("Expected newest entry first, got %v", recent[0].Timestamp)
	}
}

func TestDeleteAllEmptiesCollections(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_ = store.Users().Create(ctx, &models.User{Name: "Arya"})
	_ = store.History().Create(ctx, &models.History{UserID: primitive.NewObjectID(), AwardedPoints: 1, Timestamp: time.Now()})

	if err := store.Users().DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll users failed: %v", err)
	}
	if err := store.History().DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll history failed: %v", err)
	}

	if n, _ := store.Users().Count(ctx); n != 0 {
		t.Errorf("Expected 0 users, got %d", n)
	}
	if n, _ := store.History().Count(ctx); n != 0 {
		t.Errorf("Expected 0 history entries, got %d", n)
	}
}

func TestTransactorRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	user := &models.User{Name: "Vardhan", TotalPoints: 870}
	_ = users.Create(ctx, user)

	tx := NewTransactor(store, true)
	boom := errors.New("history insert failed")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := users.IncrementPoints(ctx, user.ID, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected transaction error, got %v", err)
	}

	got, _ := users.FindByID(ctx, user.ID)
	if got.TotalPoints != 870 {
		t.Errorf("Expected rollback to 870, got %d", got.TotalPoints)
	}
}

func TestTransactorDisabledCommitsEachCall(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	user := &models.User{Name: "Vardhan", TotalPoints: 870}
	_ = users.Create(ctx, user)

	tx := NewTransactor(store, false)
	if tx.Transactional() {
		t.Fatal("Expected non-transactional transactor")
	}

	_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, _ = users.IncrementPoints(ctx, user.ID, 5)
		return errors.New("later failure")
	})

	got, _ := users.FindByID(ctx, user.ID)
	if got.TotalPoints != 875 {
		t.Errorf("Expected increment to stick at 875, got %d", got.TotalPoints)
	}
}

func TestTransactionHidesPartialWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	user := &models.User{Name: "Vardhan", TotalPoints: 870}
	_ = users.Create(ctx, user)

	tx := NewTransactor(store, true)
	seen := make(chan int, 1)

	_ = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := users.IncrementPoints(txCtx, user.ID, 5); err != nil {
			return err
		}
		go func() {
			got, err := users.FindByID(ctx, user.ID)
			if err != nil {
				seen <- -1
				return
			}
			seen <- got.TotalPoints
		}()

		time.Sleep(20 * time.Millisecond)
		select {
		case points := <-seen:
			t.Errorf("Reader ran inside the transaction and saw %d points", points)
		default:
		}
		return errors.New("history insert failed")
	})

	if points := <-seen; points != 870 {
		t.Errorf("Expected reader to see 870 after rollback, got %d", points)
	}
}

func TestRollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()
	tx := NewTransactor(store, true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
				_, err := users.IncrementPoints(ctx, primitive.NewObjectID(), 1)
				return err
			})
		}
	}()

	const created = 500
	for i := 0; i < created; i++ {
		if err := users.Create(ctx, &models.User{Name: "Koushik"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	<-done

	if n, _ := users.Count(ctx); n != created {
		t.Errorf("Expected %d users to survive rollbacks, got %d", created, n)
	}
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()
	tx := NewTransactor(store, true)

	user := &models.User{Name: "Arya", TotalPoints: 650}
	_ = users.Create(ctx, user)

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := users.IncrementPoints(ctx, user.ID, 3)
			return err
		})
	})
	if err != nil {
		t.Fatalf("Nested transaction failed: %v", err)
	}

	got, _ := users.FindByID(ctx, user.ID)
	if got.TotalPoints != 653 {
		t.Errorf("Expected 653 points, got %d", got.TotalPoints)
	}
}
