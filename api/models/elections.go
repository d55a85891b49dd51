package models

import (
	"time"

	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

type CandidateEntry struct {
	Name      string `json:"name"`
	Manifesto string `json:"manifesto"`
}

type CreateElectionRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Candidates  []CandidateEntry `json:"candidates"`
}

type CreateElectionResponse struct {
	Message         string `json:"message"`
	ElectionID      int    `json:"election_id"`
	CandidatesAdded int    `json:"candidates_added"`
}

type CancelElectionResponse struct {
	Message    string `json:"message"`
	ElectionID int    `json:"election_id"`
}

type CandidateResponse struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	Manifesto   string `json:"manifesto"`
}

type ElectionResponse struct {
	ElectionID     int                 `json:"election_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	Status         string              `json:"status"`
	CandidateCount int                 `json:"candidate_count"`
	Candidates     []CandidateResponse `json:"candidates"`
}

func TransformElectionFromStorage(e *storage.Election, now time.Time) ElectionResponse {
	r := ElectionResponse{
		ElectionID:     e.ID,
		Title:          e.Title,
		Description:    e.Description,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Status:         string(e.StatusAt(now)),
		CandidateCount: len(e.Candidates),
		Candidates:     make([]CandidateResponse, 0, len(e.Candidates)),
	}
	for _, c := range e.Candidates {
		r.Candidates = append(r.Candidates, CandidateResponse{
			CandidateID: c.ID,
			Name:        c.Name,
			Manifesto:   c.Manifesto,
		})
	}
	return r
}
