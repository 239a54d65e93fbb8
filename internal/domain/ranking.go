package domain

import (
	"math"
	"sort"
	"time"
)

// RankingEntry is one row of the public leaderboard
type RankingEntry struct {
	Position   int     `json:"position"`
	UserID     string  `json:"userId"`
	Username   string  `json:"username"`
	Solved     int     `json:"solved"`
	Attempts   int     `json:"attempts"`
	Efficiency float64 `json:"efficiency"`
}

// Ranking is a leaderboard snapshot
type Ranking struct {
	Entries   []RankingEntry `json:"ranking"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SortProfiles orders profiles by solved desc, attempts asc, then username
func SortProfiles(profiles []Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.Solved != b.Solved {
			return a.Solved > b.Solved
		}
		if a.Attempts != b.Attempts {
			return a.Attempts < b.Attempts
		}
		return a.Username < b.Username
	})
}

// BuildRanking sorts profiles and numbers them from 1
func BuildRanking(profiles []Profile, at time.Time) Ranking {
	sorted := make([]Profile, len(profiles))
	copy(sorted, profiles)
	SortProfiles(sorted)

	entries := make([]RankingEntry, 0, len(sorted))
	for i, p := range sorted {
		name := p.Username
		if name == "" {
			name = "Anon"
		}
		entries = append(entries, RankingEntry{
			Position:   i + 1,
			UserID:     p.ID,
			Username:   name,
			Solved:     p.Solved,
			Attempts:   p.Attempts,
			Efficiency: efficiency(p.Solved, p.Attempts),
		})
	}
	return Ranking{Entries: entries, UpdatedAt: at}
}

func efficiency(solved, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return math.Round(float64(solved)/float64(attempts)*100) / 100
}
