package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/samirrijal/mygeo/internal/core/domain"
)

func TestPointRepo_AppendKeepsInsertionOrder(t *testing.T) {
	repo := NewPointRepo()
	ctx := context.Background()

	for i, name := range []string{"Cafe", "Park", "Museum"} {
		p := &domain.Point{ID: fmt.Sprintf("p%d", i), Name: name}
		if err := repo.Append(ctx, p); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	points, _ := repo.List(ctx)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, want := range []string{"Cafe", "Park", "Museum"} {
		if points[i].Name != want {
			t.Errorf("points[%d] = %s, want %s", i, points[i].Name, want)
		}
	}
}

func TestPointRepo_RejectsDuplicateID(t *testing.T) {
	repo := NewPointRepo()
	ctx := context.Background()

	if err := repo.Append(ctx, &domain.Point{ID: "same", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append(ctx, &domain.Point{ID: "same", Name: "B"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("expected 1 point, got %d", n)
	}
}

func TestPointRepo_ListReturnsCopy(t *testing.T) {
	repo := NewPointRepo()
	ctx := context.Background()
	_ = repo.Append(ctx, &domain.Point{ID: "p1", Name: "Cafe"})

	points, _ := repo.List(ctx)
	points[0].Name = "changed"

	again, _ := repo.List(ctx)
	if again[0].Name != "Cafe" {
		t.Errorf("stored point was mutated through List: %s", again[0].Name)
	}
}

func TestPointRepo_ConcurrentAppend(t *testing.T) {
	repo := NewPointRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, &domain.Point{ID: fmt.Sprintf("p%d", i)})
		}(i)
	}
	wg.Wait()

	if n, _ := repo.Count(ctx); n != 50 {
		t.Errorf("expected 50 points, got %d", n)
	}
}
