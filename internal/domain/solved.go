package domain

import "github.com/google/uuid"

// PassedBefore reports whether prior holds a passing submission by the user on
// the challenge other than current. Entries for other users or challenges are ignored.
func PassedBefore(userID, challengeID string, current uuid.UUID, prior []Submission) bool {
	for _, s := range prior {
		if s.ID == current || s.UserID != userID || s.ChallengeID != challengeID {
			continue
		}
		if s.Passed {
			return true
		}
	}
	return false
}

// FirstTimeSolved reports whether a passing submission is the user's first
// pass on the challenge. prior must cover every earlier submission of the user
// on the challenge; a truncated history can count a challenge twice.
func FirstTimeSolved(userID, challengeID string, current uuid.UUID, passed bool, prior []Submission) bool {
	return passed && !PassedBefore(userID, challengeID, current, prior)
}
