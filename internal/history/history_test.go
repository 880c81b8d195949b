package history

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := newTestStore(t)

	records := []*Record{
		{Source: "cli", Sender: "ana@example.com", Category: "scheduling", Sentiment: "neutral", Confidence: 0.7, Keywords: []string{"agendar", "reuniao"}},
		{Source: "api", Category: "complaint", Sentiment: "negative", Confidence: 0.9, Response: "Lamento pelo inconveniente."},
		{Source: "inbox", Sender: "joao@example.com", Subject: "Urgente", Category: "urgency", Sentiment: "neutral", Confidence: 0.6},
	}
	for _, r := range records {
		if err := store.Add(r); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if r.ID == "" {
			t.Error("Add() did not assign an ID")
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d records, want 3", len(got))
	}

	byID := make(map[string]Record)
	for _, r := range got {
		byID[r.ID] = r
	}
	first := byID[records[0].ID]
	if first.Category != "scheduling" || first.Sender != "ana@example.com" {
		t.Errorf("stored record = %+v", first)
	}
	if len(first.Keywords) != 2 || first.Keywords[0] != "agendar" {
		t.Errorf("stored keywords = %v, want [agendar reuniao]", first.Keywords)
	}
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(&Record{Source: "cli", Category: "greeting", Sentiment: "neutral"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d records", len(got))
	}
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)

	seed := []struct {
		category  string
		sentiment string
	}{
		{"scheduling", "neutral"},
		{"scheduling", "positive"},
		{"complaint", "negative"},
	}
	for _, s := range seed {
		if err := store.Add(&Record{Source: "cli", Category: s.category, Sentiment: s.sentiment}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByCategory["scheduling"] != 2 {
		t.Errorf("ByCategory[scheduling] = %d, want 2", stats.ByCategory["scheduling"])
	}
	if stats.ByCategory["complaint"] != 1 {
		t.Errorf("ByCategory[complaint] = %d, want 1", stats.ByCategory["complaint"])
	}
	if stats.BySentiment["negative"] != 1 {
		t.Errorf("BySentiment[negative] = %d, want 1", stats.BySentiment["negative"])
	}
}

func TestGetStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Total = %d, want 0", stats.Total)
	}
	if len(stats.ByCategory) != 0 {
		t.Errorf("ByCategory = %v, want empty", stats.ByCategory)
	}
}
