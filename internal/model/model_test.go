package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAdminSecretHashNotInJSON(t *testing.T) {
	admin := Admin{
		ID:         "0193a6f2-0000-7000-8000-000000000001",
		Username:   "admin",
		SecretHash: "$2a$10$somebcrypthash",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	b, err := json.Marshal(admin)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if _, ok := m["secret_hash"]; ok {
		t.Error("secret_hash should NOT appear in JSON output (json:\"-\" tag)")
	}
	if m["username"] != "admin" {
		t.Errorf("username = %v, want %q", m["username"], "admin")
	}
}

func TestDownloadLinksComplete(t *testing.T) {
	links := DownloadLinks{
		Q720:  "https://cdn.example.com/720.mp4",
		Q1080: "https://cdn.example.com/1080.mp4",
		Q1440: "https://cdn.example.com/1440.mp4",
	}
	if !links.Complete() {
		t.Error("links with all three tiers should be complete")
	}

	links.Q1080 = ""
	if links.Complete() {
		t.Error("links missing 1080p should not be complete")
	}

	// Extra qualities never substitute for the required tiers.
	links.Extra = map[string]string{"1080p": "https://cdn.example.com/alt.mp4"}
	if links.Complete() {
		t.Error("extra entries should not satisfy the required tiers")
	}
}

func TestDownloadLinksJSONKeys(t *testing.T) {
	links := DownloadLinks{
		Q720:  "a",
		Q1080: "b",
		Q1440: "c",
		Extra: map[string]string{"2160p": "d"},
	}

	b, err := json.Marshal(links)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	for _, key := range []string{"720p", "1080p", "1440p", "extra"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected %q key in JSON output", key)
		}
	}
}

func TestMovieNormalizeAndMissingFields(t *testing.T) {
	m := Movie{
		Title:     "  Inception ",
		PosterURL: " https://img.example.com/p.jpg ",
		Category:  "",
	}
	m.Normalize()

	if m.Title != "Inception" {
		t.Errorf("Title = %q, want %q", m.Title, "Inception")
	}
	if m.PosterURL != "https://img.example.com/p.jpg" {
		t.Errorf("PosterURL = %q", m.PosterURL)
	}

	missing := m.MissingFields()
	if len(missing) != 1 || missing[0] != "category" {
		t.Errorf("MissingFields = %v, want [category]", missing)
	}

	m.Category = "Sci-Fi"
	if got := m.MissingFields(); got != nil {
		t.Errorf("MissingFields = %v, want nil", got)
	}
}
