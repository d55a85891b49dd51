package models

import (
	"time"

	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

type CastVoteRequest struct {
	ElectionID  int `json:"election_id"`
	CandidateID int `json:"candidate_id"`
}

type CastVoteResponse struct {
	Message    string    `json:"message"`
	VoteID     int       `json:"vote_id"`
	ElectionID int       `json:"election_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func TransformReceiptFromStorage(r *storage.VoteReceipt) CastVoteResponse {
	return CastVoteResponse{
		Message:    "Vote cast successfully for " + r.CandidateName + "!",
		VoteID:     r.VoteID,
		ElectionID: r.ElectionID,
		Timestamp:  r.CreatedAt,
	}
}

type VoteStatusResponse struct {
	VotedElections []int `json:"voted_elections"`
}
