package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/CodeMark24/sample-e-voting-platform/api/controllers/testing"
	"github.com/CodeMark24/sample-e-voting-platform/api/models"
)

func TestCastVoteEndpoint(t *testing.T) {
	env := setupTestControllers(t)
	now := time.Now().UTC()

	t.Run("rejects request without a session token", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: 1, CandidateID: 1}, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("rejects an admin token on the student endpoint", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: 1, CandidateID: 1}, adminHeaders(t, 1))
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			map[string]any{"election_id": "seven"}, studentHeaders(t, 42))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("rejects missing ids", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{}, studentHeaders(t, 42))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("unknown election is 404", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: 9999, CandidateID: 1}, studentHeaders(t, 42))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("ended election is 403 with the window in the message", func(t *testing.T) {
		election := env.createElection(t, now.Add(-2*time.Hour), now.Add(-time.Hour))

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: election.ID, CandidateID: election.Candidates[0].ID},
			studentHeaders(t, 42))
		require.Equal(t, http.StatusForbidden, res.Code)

		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Contains(t, body.Error, "ended")
	})

	t.Run("candidate from another election is 400", func(t *testing.T) {
		election := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
		other := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: election.ID, CandidateID: other.Candidates[0].ID},
			studentHeaders(t, 42))
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("happy path returns a receipt and notifies the hub", func(t *testing.T) {
		election := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
		candidate := election.Candidates[0]
		before := env.notifier.voteCastCount()

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: election.ID, CandidateID: candidate.ID},
			studentHeaders(t, 101))
		require.Equal(t, http.StatusOK, res.Code)

		var body models.CastVoteResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.NotZero(t, body.VoteID)
		assert.Equal(t, election.ID, body.ElectionID)
		assert.Contains(t, body.Message, candidate.Name)
		assert.Equal(t, before+1, env.notifier.voteCastCount())
	})

	t.Run("second vote is 409 and does not notify", func(t *testing.T) {
		election := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
		headers := studentHeaders(t, 202)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: election.ID, CandidateID: election.Candidates[0].ID}, headers)
		require.Equal(t, http.StatusOK, res.Code)
		before := env.notifier.voteCastCount()

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.CastVoteRequest{ElectionID: election.ID, CandidateID: election.Candidates[1].ID}, headers)
		assert.Equal(t, http.StatusConflict, res.Code)
		assert.Equal(t, before, env.notifier.voteCastCount())
	})
}

// TestCastVoteSimultaneousRequests replays the race from the casting
// protocol: two requests for the same voter arrive together and exactly
// one may win.
func TestCastVoteSimultaneousRequests(t *testing.T) {
	env := setupTestControllers(t)
	now := time.Now().UTC()
	election := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
	headers := studentHeaders(t, 42)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
				models.CastVoteRequest{
					ElectionID:  election.ID,
					CandidateID: election.Candidates[i].ID,
				}, headers)
			codes[i] = res.Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)
}

func TestVoteStatusEndpoint(t *testing.T) {
	env := setupTestControllers(t)
	now := time.Now().UTC()

	first := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
	second := env.createElection(t, now.Add(-time.Hour), now.Add(time.Hour))
	headers := studentHeaders(t, 42)

	res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
		models.CastVoteRequest{ElectionID: first.ID, CandidateID: first.Candidates[0].ID}, headers)
	require.Equal(t, http.StatusOK, res.Code)

	t.Run("reports only elections the student voted in", func(t *testing.T) {
		path := fmt.Sprintf("/api/vote/status?election_ids=%d,%d", first.ID, second.ID)
		res := testutils.PerformRequest(env.router, http.MethodGet, path, nil, headers)
		require.Equal(t, http.StatusOK, res.Code)

		var body models.VoteStatusResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, []int{first.ID}, body.VotedElections)
	})

	t.Run("empty id list is an empty response, not an error", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/vote/status", nil, headers)
		require.Equal(t, http.StatusOK, res.Code)

		var body models.VoteStatusResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Empty(t, body.VotedElections)
	})

	t.Run("requires authentication", func(t *testing.T) {
		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/vote/status", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
