package domain

import (
	"testing"
	"time"
)

func TestBuildRankingOrdering(t *testing.T) {
	mk := func(id string, solved, attempts int) Profile {
		p := NewProfile(id, id, time.Now())
		p.Solved, p.Attempts = solved, attempts
		return p
	}
	profiles := []Profile{
		mk("c", 5, 40),
		mk("a", 5, 20),
		mk("b", 7, 70),
		mk("d", 7, 65),
		mk("e", 7, 65),
	}

	r := BuildRanking(profiles, time.Now())
	want := []string{"d", "e", "b", "a", "c"}
	for i, id := range want {
		if r.Entries[i].UserID != id || r.Entries[i].Position != i+1 {
			t.Fatalf("position %d: got %+v, want %s", i+1, r.Entries[i], id)
		}
	}
	if profiles[0].ID != "c" {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestBuildRankingEfficiencyAndAnon(t *testing.T) {
	p := NewProfile("u", "", time.Now())
	p.Solved, p.Attempts = 2, 3
	idle := NewProfile("idle", "idle", time.Now())

	r := BuildRanking([]Profile{p, idle}, time.Now())
	if r.Entries[0].Username != "Anon" || r.Entries[0].Efficiency != 0.67 {
		t.Fatalf("unexpected entry %+v", r.Entries[0])
	}
	if r.Entries[1].Efficiency != 0 {
		t.Fatalf("expected zero efficiency without attempts, got %v", r.Entries[1].Efficiency)
	}
}
