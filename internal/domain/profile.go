package domain

import "time"

// Profile holds per-user submission statistics
type Profile struct {
	ID               string     `db:"user_id"`
	Username         string     `db:"username"`
	Solved           int        `db:"solved"`
	Attempts         int        `db:"attempts"`
	LastSubmissionAt *time.Time `db:"last_submission_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// NewProfile creates an empty profile
func NewProfile(id, username string, now time.Time) Profile {
	return Profile{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RegisterSubmission returns the profile after one more submission.
// Attempts always grow; solved grows only on a first-time solve.
func (p Profile) RegisterSubmission(passed, firstTimeSolved bool, at time.Time) Profile {
	p.Attempts++
	if passed && firstTimeSolved {
		p.Solved++
	}
	p.LastSubmissionAt = &at
	p.UpdatedAt = at
	return p
}

type ProfileTable struct {
	ID               string
	Username         string
	Solved           string
	Attempts         string
	LastSubmissionAt string
	CreatedAt        string
	UpdatedAt        string
}

func GetProfileTable() ProfileTable {
	return ProfileTable{
		ID:               "user_id",
		Username:         "username",
		Solved:           "solved",
		Attempts:         "attempts",
		LastSubmissionAt: "last_submission_at",
		CreatedAt:        "created_at",
		UpdatedAt:        "updated_at",
	}
}

func (ProfileTable) TableName() string {
	return "profiles"
}
