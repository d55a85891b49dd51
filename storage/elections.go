package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/CodeMark24/sample-e-voting-platform/logging"
)

type ElectionStorage interface {
	Create(ctx context.Context, election *Election, candidates []*Candidate) (electionID, candidatesAdded int, err error)
	Cancel(ctx context.Context, electionID int) error
	Get(ctx context.Context, electionID int) (*Election, error)
	GetAll(ctx context.Context) ([]*Election, error)
	Now(ctx context.Context) (time.Time, error)
}

type SQLElectionStorage struct {
	DB *sql.DB
}

// Now reads the store's clock. All lifecycle decisions for a request use
// this single time source, never the caller's clock.
func (s *SQLElectionStorage) Now(ctx context.Context) (time.Time, error) {
	var epoch int64
	if err := s.DB.QueryRowContext(ctx, `SELECT CAST(strftime('%s','now') AS INTEGER)`).Scan(&epoch); err != nil {
		logging.Log.Errorf("ELECTION: failed to read store clock: %v", err)
		return time.Time{}, err
	}
	return time.Unix(epoch, 0).UTC(), nil
}

// Create inserts the election and its candidates as one atomic unit.
// Candidates with blank names are skipped; if fewer than two survive, the
// whole transaction rolls back and nothing persists.
func (s *SQLElectionStorage) Create(ctx context.Context, election *Election, candidates []*Candidate) (int, int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to begin transaction: %v", err)
		return 0, 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO elections (title, description, start_time, end_time, created_by)
		VALUES (?, ?, ?, ?, ?)`,
		election.Title, election.Description, election.StartTime.Unix(), election.EndTime.Unix(), election.CreatedBy)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to insert election: %v", err)
		return 0, 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	added := 0
	for _, c := range candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (election_id, name, manifesto)
			VALUES (?, ?, ?)`,
			id, name, c.Manifesto)
		if err != nil {
			logging.Log.Errorf("ELECTION: failed to insert candidate %q: %v", name, err)
			return 0, 0, err
		}
		added++
	}

	// An election must never persist with fewer than two candidates.
	if added < 2 {
		logging.Log.Warnf("ELECTION: only %d valid candidates, rolling back", added)
		return 0, 0, ErrNotEnoughCandidates
	}

	if err := tx.Commit(); err != nil {
		logging.Log.Errorf("ELECTION: failed to commit create: %v", err)
		return 0, 0, err
	}
	return int(id), added, nil
}

// Cancel marks the election cancelled. Cancellation is terminal, so a
// second call reports ErrAlreadyCancelled and changes nothing.
func (s *SQLElectionStorage) Cancel(ctx context.Context, electionID int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to begin transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	var cancelled bool
	err = tx.QueryRowContext(ctx,
		`SELECT cancelled FROM elections WHERE election_id = ?`, electionID).Scan(&cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrElectionNotFound
	}
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to load election %d: %v", electionID, err)
		return err
	}
	if cancelled {
		return ErrAlreadyCancelled
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE elections SET cancelled = 1 WHERE election_id = ?`, electionID); err != nil {
		logging.Log.Errorf("ELECTION: failed to cancel election %d: %v", electionID, err)
		return err
	}

	return tx.Commit()
}

func (s *SQLElectionStorage) Get(ctx context.Context, electionID int) (*Election, error) {
	var (
		e          Election
		start, end int64
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT election_id, title, description, start_time, end_time, created_by, cancelled
		FROM elections WHERE election_id = ?`, electionID).
		Scan(&e.ID, &e.Title, &e.Description, &start, &end, &e.CreatedBy, &e.Cancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to load election %d: %v", electionID, err)
		return nil, err
	}
	e.StartTime = time.Unix(start, 0).UTC()
	e.EndTime = time.Unix(end, 0).UTC()

	if e.Candidates, err = s.candidatesFor(ctx, e.ID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *SQLElectionStorage) GetAll(ctx context.Context) ([]*Election, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT election_id, title, description, start_time, end_time, created_by, cancelled
		FROM elections ORDER BY start_time DESC`)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to list elections: %v", err)
		return nil, err
	}
	defer rows.Close()

	var elections []*Election
	for rows.Next() {
		var (
			e          Election
			start, end int64
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &start, &end, &e.CreatedBy, &e.Cancelled); err != nil {
			logging.Log.Errorf("ELECTION: failed to scan election row: %v", err)
			return nil, err
		}
		e.StartTime = time.Unix(start, 0).UTC()
		e.EndTime = time.Unix(end, 0).UTC()
		elections = append(elections, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range elections {
		if e.Candidates, err = s.candidatesFor(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return elections, nil
}

func (s *SQLElectionStorage) candidatesFor(ctx context.Context, electionID int) ([]*Candidate, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT candidate_id, election_id, name, manifesto
		FROM candidates WHERE election_id = ? ORDER BY candidate_id`, electionID)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to load candidates for election %d: %v", electionID, err)
		return nil, err
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Manifesto); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}
