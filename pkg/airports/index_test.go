package airports

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sudorandom/routemap/pkg/geodesy"
)

func testTable() *Table {
	return NewTable(map[string]Airport{
		"EGLL": {Name: "London Heathrow Airport", Country: "GB", Location: geodesy.Point{Lat: 51.4706, Lng: -0.461941}},
		"KSEA": {Name: "Seattle Tacoma International Airport", Country: "US", Location: geodesy.Point{Lat: 47.449888, Lng: -122.311777}},
		"LICZ": {Name: "Sigonella Navy Air Base", Country: "IT", Location: geodesy.Point{Lat: 37.401699, Lng: 14.9224}},
	})
}

func TestIndex(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "airports.db")
	idx, err := OpenIndex(dbPath)
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}

	testIndexEmpty(t, idx)
	testIndexImport(t, idx)
	testIndexReimport(t, idx)

	if err := idx.Close(); err != nil {
		t.Fatalf("Failed to close index: %v", err)
	}

	testIndexPersistence(t, dbPath)
}

func testIndexEmpty(t *testing.T, idx *Index) {
	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("fresh index has %d entries, want 0", n)
	}
	if _, ok, err := idx.Lookup("EGLL"); err != nil || ok {
		t.Errorf("Lookup on empty index = (%v, %v), want (false, nil)", ok, err)
	}
}

func testIndexImport(t *testing.T, idx *Index) {
	if err := idx.Import(testTable()); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	n, err := idx.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	// EGLL was cached as missing before the import; it must be visible now.
	a, ok, err := idx.Lookup("EGLL")
	if err != nil || !ok {
		t.Fatalf("Lookup(EGLL) = (%v, %v)", ok, err)
	}
	if a.Name != "London Heathrow Airport" || a.Location.Lat != 51.4706 {
		t.Errorf("Lookup(EGLL) = %+v", a)
	}
}

func testIndexReimport(t *testing.T, idx *Index) {
	// Warm the lookup cache so a stale entry would show.
	if _, ok, err := idx.Lookup("KSEA"); err != nil || !ok {
		t.Fatalf("Lookup(KSEA) = (%v, %v)", ok, err)
	}
	update := NewTable(map[string]Airport{
		"KSEA": {Name: "Sea-Tac", Country: "US", Location: geodesy.Point{Lat: 47.45, Lng: -122.31}},
	})
	if err := idx.Import(update); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	a, ok, err := idx.Lookup("KSEA")
	if err != nil || !ok {
		t.Fatalf("Lookup(KSEA) = (%v, %v)", ok, err)
	}
	if a.Name != "Sea-Tac" {
		t.Errorf("Import did not overwrite: got %q", a.Name)
	}
	if n, _ := idx.Count(); n != 3 {
		t.Errorf("Count after reimport = %d, want 3", n)
	}
}

func testIndexPersistence(t *testing.T, dbPath string) {
	idx, err := OpenIndex(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen index: %v", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			t.Logf("Error closing index: %v", err)
		}
	}()

	table, err := idx.Resolve([]string{"EGLL", "LICZ", "ZZZZ"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Resolve returned %d airports, want 2", table.Len())
	}
	if _, ok := table.Lookup("ZZZZ"); ok {
		t.Error("unknown code should not be resolved")
	}
	if a, ok := table.Lookup("LICZ"); !ok || a.Location.Lng != 14.9224 {
		t.Errorf("LICZ after reopen = (%v, %v)", a, ok)
	}
}

func BenchmarkIndexLookup(b *testing.B) {
	idx, err := OpenIndex(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatalf("Failed to open index: %v", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			b.Logf("Error closing index: %v", err)
		}
	}()

	entries := make(map[string]Airport, 1000)
	for i := 0; i < 1000; i++ {
		code := fmt.Sprintf("K%03d", i)
		entries[code] = Airport{Location: geodesy.Point{Lat: float64(i%180) - 90, Lng: float64(i%360) - 180}}
	}
	if err := idx.Import(NewTable(entries)); err != nil {
		b.Fatalf("Import failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Cycle through known and unknown codes to hit both cache paths
		_, _, _ = idx.Lookup(fmt.Sprintf("K%03d", i%1200))
	}
}
