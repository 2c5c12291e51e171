package store

import (
	"context"
	"testing"

	"github.com/mlovrec/curio/internal/db"
	"github.com/mlovrec/curio/internal/model"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewSQLiteRepository(database, testLogger())
	ctx := context.Background()

	sale := dec("250")
	items := []model.Item{
		{
			ID:            1700000000001,
			Name:          "Leica M3",
			Category:      "Cameras",
			Year:          "1954",
			PurchasePrice: dec("800"),
			PurchaseDate:  "05/03/2023",
			CurrentValue:  dec("1200"),
			Image:         model.PlaceholderImage,
			CreatedAt:     1700000000001,
		},
		{
			ID:            1700000000002,
			Name:          "Silver Denarius",
			Category:      "Coins",
			Year:          "1850",
			PurchasePrice: dec("50"),
			PurchaseDate:  "01/01/2024",
			CurrentValue:  dec("60"),
			SalePrice:     &sale,
			SaleDate:      "10/02/2024",
			CreatedAt:     1700000000002,
		},
	}

	if err := repo.SaveAll(ctx, items); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded))
	}
	if loaded[0].Name != "Leica M3" || !loaded[0].PurchasePrice.Equal(dec("800")) {
		t.Errorf("first item mangled: %+v", loaded[0])
	}
	if loaded[1].SalePrice == nil || !loaded[1].SalePrice.Equal(dec("250")) {
		t.Errorf("sale price mangled: %+v", loaded[1])
	}
	if !loaded[1].Sold() {
		t.Error("expected second item to be sold after round trip")
	}
}

func TestSQLiteRepositoryOverwrites(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewSQLiteRepository(database, testLogger())
	ctx := context.Background()

	repo.SaveAll(ctx, []model.Item{{ID: 1, Name: "First"}})
	repo.SaveAll(ctx, []model.Item{{ID: 2, Name: "Second"}})

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Second" {
		t.Errorf("expected only the second write to survive, got %v", loaded)
	}
}

func TestSQLiteRepositoryEmptyOnAbsence(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewSQLiteRepository(database, testLogger())

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty collection, got %v", loaded)
	}
}

func TestSQLiteRepositoryMalformedSlot(t *testing.T) {
	database := db.NewTestDB(t)
	repo := NewSQLiteRepository(database, testLogger())
	ctx := context.Background()

	tests := []string{
		"not json at all",
		`{"version":999,"items":[]}`,
		`[1,2,3]`,
	}

	for _, payload := range tests {
		if _, err := database.Exec(
			`INSERT INTO slots (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			slotKey, payload,
		); err != nil {
			t.Fatalf("seeding slot: %v", err)
		}

		loaded, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("Load(%q): %v", payload, err)
		}
		if len(loaded) != 0 {
			t.Errorf("expected empty collection for payload %q, got %v", payload, loaded)
		}
	}
}
