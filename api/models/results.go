package models

import (
	"math"

	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

type CandidateResultResponse struct {
	CandidateID int     `json:"candidate_id"`
	Name        string  `json:"name"`
	Manifesto   string  `json:"manifesto"`
	VoteCount   int     `json:"vote_count"`
	Percentage  float64 `json:"percentage"`
}

type ResultsResponse struct {
	ElectionID int                       `json:"election_id"`
	TotalVotes int                       `json:"total_votes"`
	Results    []CandidateResultResponse `json:"results"`
}

func TransformResultsFromStorage(res *storage.ElectionResults) ResultsResponse {
	out := ResultsResponse{
		ElectionID: res.ElectionID,
		TotalVotes: res.TotalVotes,
		Results:    make([]CandidateResultResponse, 0, len(res.Candidates)),
	}
	for _, c := range res.Candidates {
		pct := 0.0
		if res.TotalVotes > 0 {
			pct = math.Round(float64(c.VoteCount)/float64(res.TotalVotes)*10000) / 100
		}
		out.Results = append(out.Results, CandidateResultResponse{
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Manifesto:   c.Manifesto,
			VoteCount:   c.VoteCount,
			Percentage:  pct,
		})
	}
	return out
}
