package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/CodeMark24/sample-e-voting-platform/logging"
)

type VoteStorage interface {
	Cast(ctx context.Context, electionID, voterID, candidateID int) (*VoteReceipt, error)
	Results(ctx context.Context, electionID int) (*ElectionResults, error)
	VotedElections(ctx context.Context, voterID int, electionIDs []int) ([]int, error)
}

type SQLVoteStorage struct {
	DB *sql.DB
}

// Cast records a single vote inside one transaction: election lookup,
// window check against the store's clock, candidate ownership check,
// duplicate pre-check, insert. The pre-checks only exist to produce
// precise errors - the UNIQUE(election_id, voter_id) constraint is what
// actually prevents a double vote when two requests race.
func (s *SQLVoteStorage) Cast(ctx context.Context, electionID, voterID, candidateID int) (*VoteReceipt, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to begin transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	// 1. Election must exist. The store clock is read in the same
	// statement so the window check and the row share one time source.
	var (
		start, end, nowEpoch int64
		cancelled            bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT start_time, end_time, cancelled, CAST(strftime('%s','now') AS INTEGER)
		FROM elections WHERE election_id = ?`, electionID).
		Scan(&start, &end, &cancelled, &nowEpoch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load election %d: %v", electionID, err)
		return nil, err
	}

	// 2. Election must be active.
	election := &Election{
		StartTime: time.Unix(start, 0).UTC(),
		EndTime:   time.Unix(end, 0).UTC(),
		Cancelled: cancelled,
	}
	if status := election.StatusAt(time.Unix(nowEpoch, 0).UTC()); status != StatusActive {
		return nil, &NotActiveError{
			Status:    status,
			StartTime: election.StartTime,
			EndTime:   election.EndTime,
		}
	}

	// 3. Candidate must belong to this election.
	var candidateName string
	err = tx.QueryRowContext(ctx, `
		SELECT name FROM candidates WHERE candidate_id = ? AND election_id = ?`,
		candidateID, electionID).Scan(&candidateName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load candidate %d: %v", candidateID, err)
		return nil, err
	}

	// 4. No prior vote for this voter in this election.
	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT vote_id FROM votes WHERE election_id = ? AND voter_id = ?`,
		electionID, voterID).Scan(&existing)
	if err == nil {
		return nil, ErrAlreadyVoted
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logging.Log.Errorf("VOTE: failed duplicate check for voter %d: %v", voterID, err)
		return nil, err
	}

	// 5. Insert. A concurrent request may still win the race between the
	// pre-check and here; the constraint violation maps to the same outcome.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO votes (election_id, voter_id, candidate_id, created_at)
		VALUES (?, ?, ?, ?)`,
		electionID, voterID, candidateID, nowEpoch)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrAlreadyVoted
		}
		logging.Log.Errorf("VOTE: failed to insert vote: %v", err)
		return nil, err
	}

	voteID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrAlreadyVoted
		}
		logging.Log.Errorf("VOTE: failed to commit vote: %v", err)
		return nil, err
	}

	return &VoteReceipt{
		VoteID:        int(voteID),
		ElectionID:    electionID,
		CandidateID:   candidateID,
		CandidateName: candidateName,
		CreatedAt:     time.Unix(nowEpoch, 0).UTC(),
	}, nil
}

// Results tallies votes per candidate, ranked by count descending then
// name ascending. Candidates without votes appear with a zero count.
func (s *SQLVoteStorage) Results(ctx context.Context, electionID int) (*ElectionResults, error) {
	var exists int
	err := s.DB.QueryRowContext(ctx,
		`SELECT election_id FROM elections WHERE election_id = ?`, electionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		logging.Log.Errorf("VOTE: failed to check election %d: %v", electionID, err)
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.candidate_id, c.name, c.manifesto, COUNT(v.vote_id) AS vote_count
		FROM candidates c
		LEFT JOIN votes v ON c.candidate_id = v.candidate_id
		WHERE c.election_id = ?
		GROUP BY c.candidate_id
		ORDER BY vote_count DESC, c.name ASC`, electionID)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to tally election %d: %v", electionID, err)
		return nil, err
	}
	defer rows.Close()

	results := &ElectionResults{ElectionID: electionID}
	for rows.Next() {
		var r CandidateResult
		if err := rows.Scan(&r.CandidateID, &r.Name, &r.Manifesto, &r.VoteCount); err != nil {
			logging.Log.Errorf("VOTE: failed to scan tally row: %v", err)
			return nil, err
		}
		results.TotalVotes += r.VoteCount
		results.Candidates = append(results.Candidates, &r)
	}
	return results, rows.Err()
}

// VotedElections reports which of the given elections the voter has
// already voted in.
func (s *SQLVoteStorage) VotedElections(ctx context.Context, voterID int, electionIDs []int) ([]int, error) {
	voted := make([]int, 0, len(electionIDs))
	if len(electionIDs) == 0 {
		return voted, nil
	}

	placeholders := strings.Repeat("?,", len(electionIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(electionIDs)+1)
	args = append(args, voterID)
	for _, id := range electionIDs {
		args = append(args, id)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT election_id FROM votes
		WHERE voter_id = ? AND election_id IN (`+placeholders+`)
		ORDER BY election_id`, args...)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to check vote status for voter %d: %v", voterID, err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		voted = append(voted, id)
	}
	return voted, rows.Err()
}
