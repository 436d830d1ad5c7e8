package domain

import (
	"errors"
	"testing"
)

func TestRegistryIsClosedAndOrdered(t *testing.T) {
	ids := CategoryIDs()
	if len(ids) != 37 {
		t.Fatalf("expected 37 categories, got %d", len(ids))
	}
	if ids[0] != "LOTR" || ids[len(ids)-1] != "SpaceMission" {
		t.Fatalf("unexpected registry order: first=%s last=%s", ids[0], ids[len(ids)-1])
	}
	seen := make(map[string]bool)
	for i, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate category %s", id)
		}
		seen[id] = true
		if CategoryOrder(id) != i {
			t.Fatalf("order of %s = %d, want %d", id, CategoryOrder(id), i)
		}
	}
	if IsCategory("Quidditch") {
		t.Fatalf("unexpected category accepted")
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].DisplayName = "mutated"
	if DisplayName("LOTR") != "Tolkien's Lord of the Rings" {
		t.Fatalf("registry was mutated through accessor")
	}
	if DisplayName("Nope") != "Nope" {
		t.Fatalf("expected fallback to id")
	}
}

func TestDataLoadErrorMatchesSentinel(t *testing.T) {
	err := error(&DataLoadError{Topic: "music", Err: ErrTopicNotFound})
	if !errors.Is(err, ErrDataLoad) || !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected error to match both sentinels: %v", err)
	}
}
