package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMark24/sample-e-voting-platform/logging"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	logging.Log = logrus.New()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestElection inserts an election with two candidates and returns
// the election plus its candidate IDs.
func createTestElection(t *testing.T, db *sql.DB, start, end time.Time) *Election {
	t.Helper()

	elections := &SQLElectionStorage{DB: db}
	id, added, err := elections.Create(context.Background(), &Election{
		Title:     "Guild President",
		StartTime: start,
		EndTime:   end,
		CreatedBy: 1,
	}, []*Candidate{
		{Name: "Alice Akello", Manifesto: "Better labs"},
		{Name: "Brian Okello", Manifesto: "Cheaper meals"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	election, err := elections.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, election.Candidates, 2)
	return election
}

func TestCastVote(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}
	now := time.Now().UTC()

	t.Run("happy path returns a receipt and persists the vote", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))
		candidate := election.Candidates[0]

		receipt, err := votes.Cast(context.Background(), election.ID, 42, candidate.ID)
		require.NoError(t, err)
		assert.NotZero(t, receipt.VoteID)
		assert.Equal(t, election.ID, receipt.ElectionID)
		assert.Equal(t, candidate.ID, receipt.CandidateID)
		assert.Equal(t, candidate.Name, receipt.CandidateName)

		var count int
		require.NoError(t, db.QueryRow(
			`SELECT COUNT(*) FROM votes WHERE election_id = ?`, election.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("unknown election is NotFound", func(t *testing.T) {
		_, err := votes.Cast(context.Background(), 99999, 42, 1)
		assert.ErrorIs(t, err, ErrElectionNotFound)
	})

	t.Run("upcoming election is rejected with window bounds", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(time.Hour), now.Add(2*time.Hour))

		_, err := votes.Cast(context.Background(), election.ID, 42, election.Candidates[0].ID)
		var notActive *NotActiveError
		require.ErrorAs(t, err, &notActive)
		assert.Equal(t, StatusUpcoming, notActive.Status)
		assert.Equal(t, election.StartTime.Unix(), notActive.StartTime.Unix())
	})

	t.Run("ended election is rejected as not active, never as a conflict", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(-2*time.Hour), now.Add(-time.Hour))

		_, err := votes.Cast(context.Background(), election.ID, 42, election.Candidates[0].ID)
		var notActive *NotActiveError
		require.ErrorAs(t, err, &notActive)
		assert.Equal(t, StatusCompleted, notActive.Status)
		assert.NotErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("cancelled election is rejected even inside its window", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))
		elections := &SQLElectionStorage{DB: db}
		require.NoError(t, elections.Cancel(context.Background(), election.ID))

		_, err := votes.Cast(context.Background(), election.ID, 42, election.Candidates[0].ID)
		var notActive *NotActiveError
		require.ErrorAs(t, err, &notActive)
		assert.Equal(t, StatusCancelled, notActive.Status)
	})

	t.Run("candidate from another election inserts nothing", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))
		other := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

		_, err := votes.Cast(context.Background(), election.ID, 77, other.Candidates[0].ID)
		assert.ErrorIs(t, err, ErrCandidateNotFound)

		var count int
		require.NoError(t, db.QueryRow(
			`SELECT COUNT(*) FROM votes WHERE election_id = ?`, election.ID).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("second vote by the same voter is a conflict", func(t *testing.T) {
		election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

		_, err := votes.Cast(context.Background(), election.ID, 55, election.Candidates[0].ID)
		require.NoError(t, err)

		_, err = votes.Cast(context.Background(), election.ID, 55, election.Candidates[1].ID)
		assert.ErrorIs(t, err, ErrAlreadyVoted)

		var count int
		require.NoError(t, db.QueryRow(
			`SELECT COUNT(*) FROM votes WHERE election_id = ? AND voter_id = 55`, election.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

// TestCastVoteConcurrentDuplicates drives N simultaneous casts for the
// same (election, voter): exactly one may commit, the rest must report
// the duplicate conflict.
func TestCastVoteConcurrentDuplicates(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}
	now := time.Now().UTC()
	election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

	const attempts = 10
	var successes, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := election.Candidates[i%2]
			_, err := votes.Cast(context.Background(), election.ID, 42, candidate.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM votes WHERE election_id = ? AND voter_id = 42`, election.ID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestResults(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}
	now := time.Now().UTC()
	election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

	alice := election.Candidates[0]
	brian := election.Candidates[1]

	// 3 votes for Alice, 5 for Brian.
	for voter := 1; voter <= 3; voter++ {
		_, err := votes.Cast(context.Background(), election.ID, voter, alice.ID)
		require.NoError(t, err)
	}
	for voter := 4; voter <= 8; voter++ {
		_, err := votes.Cast(context.Background(), election.ID, voter, brian.ID)
		require.NoError(t, err)
	}

	results, err := votes.Results(context.Background(), election.ID)
	require.NoError(t, err)

	assert.Equal(t, 8, results.TotalVotes)
	require.Len(t, results.Candidates, 2)
	assert.Equal(t, brian.ID, results.Candidates[0].CandidateID)
	assert.Equal(t, 5, results.Candidates[0].VoteCount)
	assert.Equal(t, alice.ID, results.Candidates[1].CandidateID)
	assert.Equal(t, 3, results.Candidates[1].VoteCount)
}

func TestResultsTieBreaksByName(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}
	now := time.Now().UTC()
	election := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

	results, err := votes.Results(context.Background(), election.ID)
	require.NoError(t, err)

	// No votes at all: both candidates tie at zero, ranked by name.
	assert.Zero(t, results.TotalVotes)
	require.Len(t, results.Candidates, 2)
	assert.Equal(t, "Alice Akello", results.Candidates[0].Name)
	assert.Equal(t, "Brian Okello", results.Candidates[1].Name)
}

func TestResultsUnknownElection(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}

	_, err := votes.Results(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrElectionNotFound)
}

func TestVotedElections(t *testing.T) {
	db := setupTestDB(t)
	votes := &SQLVoteStorage{DB: db}
	now := time.Now().UTC()

	first := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))
	second := createTestElection(t, db, now.Add(-time.Hour), now.Add(time.Hour))

	_, err := votes.Cast(context.Background(), first.ID, 42, first.Candidates[0].ID)
	require.NoError(t, err)

	voted, err := votes.VotedElections(context.Background(), 42, []int{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, []int{first.ID}, voted)

	voted, err = votes.VotedElections(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Empty(t, voted)
}
