package storage

import (
	"path/filepath"
	"testing"
)

// setupTestDB creates a client against a throwaway database file.
func setupTestDB(t *testing.T) *DBClient {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_vocaldna.sqlite3")
	client, err := NewDBClientWithPath(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test DB client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func sampleRecord() SessionRecord {
	return SessionRecord{
		ChartKey:       "abc123",
		Title:          "Test Song",
		Artist:         "Nobody",
		Difficulty:     "Normal",
		Score:          120,
		MaxScore:       200,
		Percent:        0.6,
		Rank:           "C",
		OKCount:        2,
		GoodCount:      1,
		ExcellentCount: 3,
		GoldenHit:      1,
		GoldenTotal:    2,
	}
}

func TestSaveAndGetSession(t *testing.T) {
	client := setupTestDB(t)

	id, err := client.SaveSession(sampleRecord())
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated session ID")
	}

	rec, err := client.GetSessionByID(id)
	if err != nil {
		t.Fatalf("GetSessionByID failed: %v", err)
	}
	if rec.Title != "Test Song" || rec.Score != 120 || rec.Rank != "C" {
		t.Errorf("Record round trip mismatch: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	client := setupTestDB(t)

	for i := 0; i < 3; i++ {
		rec := sampleRecord()
		rec.Score = 100 + i
		if _, err := client.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}
	}

	recs, err := client.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(recs))
	}

	limited, err := client.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 sessions with limit, got %d", len(limited))
	}
}

func TestListSessionsForChart(t *testing.T) {
	client := setupTestDB(t)

	a := sampleRecord()
	a.ChartKey = "chart-a"
	b := sampleRecord()
	b.ChartKey = "chart-b"
	if _, err := client.SaveSession(a); err != nil {
		t.Fatal(err)
	}
	if _, err := client.SaveSession(b); err != nil {
		t.Fatal(err)
	}

	recs, err := client.ListSessionsForChart("chart-a")
	if err != nil {
		t.Fatalf("ListSessionsForChart failed: %v", err)
	}
	if len(recs) != 1 || recs[0].ChartKey != "chart-a" {
		t.Errorf("Expected only chart-a sessions, got %+v", recs)
	}
}

func TestDeleteSession(t *testing.T) {
	client := setupTestDB(t)

	id, err := client.SaveSession(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}

	if err := client.DeleteSessionByID(id); err != nil {
		t.Fatalf("DeleteSessionByID failed: %v", err)
	}
	if _, err := client.GetSessionByID(id); err == nil {
		t.Error("Expected an error fetching a deleted session")
	}
	if err := client.DeleteSessionByID(id); err == nil {
		t.Error("Expected an error deleting a missing session")
	}
}

func TestNilClientGuards(t *testing.T) {
	var c *DBClient

	if _, err := c.SaveSession(sampleRecord()); err == nil {
		t.Error("Expected nil-client error from SaveSession")
	}
	if _, err := c.ListSessions(0); err == nil {
		t.Error("Expected nil-client error from ListSessions")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil client should be a no-op, got %v", err)
	}
}
