package storage

import "time"

type ElectionStatus string

const (
	StatusUpcoming  ElectionStatus = "upcoming"
	StatusActive    ElectionStatus = "active"
	StatusCompleted ElectionStatus = "completed"
	StatusCancelled ElectionStatus = "cancelled"
)

type Election struct {
	ID          int       `json:"election_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedBy   int       `json:"created_by"`
	Cancelled   bool      `json:"cancelled"`
	Candidates  []*Candidate
}

// StatusAt classifies the election for a given instant. Cancellation is
// terminal and overrides the time window. Both window boundaries are
// inclusive: a vote at exactly EndTime is still accepted.
func (e *Election) StatusAt(now time.Time) ElectionStatus {
	if e.Cancelled {
		return StatusCancelled
	}
	if now.Before(e.StartTime) {
		return StatusUpcoming
	}
	if now.After(e.EndTime) {
		return StatusCompleted
	}
	return StatusActive
}

type Candidate struct {
	ID         int    `json:"candidate_id"`
	ElectionID int    `json:"election_id"`
	Name       string `json:"name"`
	Manifesto  string `json:"manifesto"`
}

type Vote struct {
	ID          int       `json:"vote_id"`
	ElectionID  int       `json:"election_id"`
	VoterID     int       `json:"voter_id"`
	CandidateID int       `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteReceipt confirms a committed vote back to the voter.
type VoteReceipt struct {
	VoteID        int       `json:"vote_id"`
	ElectionID    int       `json:"election_id"`
	CandidateID   int       `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	CreatedAt     time.Time `json:"created_at"`
}

type CandidateResult struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Manifesto   string `json:"manifesto"`
	VoteCount   int    `json:"vote_count"`
}

type ElectionResults struct {
	ElectionID int                `json:"election_id"`
	TotalVotes int                `json:"total_votes"`
	Candidates []*CandidateResult `json:"candidates"`
}
