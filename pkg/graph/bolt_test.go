package graph

import (
	"path/filepath"
	"testing"
)

func TestBoltArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	a, err := OpenBoltArchive(path)
	if err != nil {
		t.Fatalf("OpenBoltArchive: %v", err)
	}

	store := NewStore("Demo App", []string{"https://demo.test/"})
	store.AddNode(&Node{ID: "n1", NormalizedURL: "https://demo.test/"})
	if err := a.Put(store.Graph()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Snapshots survive reopening.
	a, err = OpenBoltArchive(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	g, err := a.Latest("Demo App")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if g == nil {
		t.Fatal("Latest returned nil for archived app")
	}
	if g.AppName != "Demo App" {
		t.Errorf("AppName = %q", g.AppName)
	}
	if len(g.Nodes) != 1 {
		t.Errorf("Nodes = %d, want 1", len(g.Nodes))
	}
}

func TestBoltArchiveLatestUnknownApp(t *testing.T) {
	a, err := OpenBoltArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("OpenBoltArchive: %v", err)
	}
	defer a.Close()

	g, err := a.Latest("never-stored")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if g != nil {
		t.Errorf("expected nil graph, got %v", g.AppName)
	}
}
