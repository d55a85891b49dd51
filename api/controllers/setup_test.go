package controllers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/CodeMark24/sample-e-voting-platform/auth"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

var testSecret = []byte("controller-test-secret")

// stubNotifier records hub notifications instead of broadcasting them.
type stubNotifier struct {
	mu            sync.Mutex
	voteCasts     []int
	statusChanges []int
}

func (n *stubNotifier) NotifyVoteCast(electionID int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.voteCasts = append(n.voteCasts, electionID)
}

func (n *stubNotifier) NotifyStatusChange(electionID int, status, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, electionID)
}

func (n *stubNotifier) voteCastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.voteCasts)
}

func (n *stubNotifier) statusChangeCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.statusChanges)
}

type testEnv struct {
	router    *gin.Engine
	elections *storage.SQLElectionStorage
	votes     *storage.SQLVoteStorage
	notifier  *stubNotifier
}

func setupTestControllers(t *testing.T) *testEnv {
	t.Helper()
	logging.Log = logrus.New()

	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	electionStorage := &storage.SQLElectionStorage{DB: db}
	voteStorage := &storage.SQLVoteStorage{DB: db}
	resolver := &auth.JWTResolver{Secret: testSecret}
	notifier := &stubNotifier{}

	gin.SetMode(gin.TestMode)
	r := gin.New()

	NewVotingController(voteStorage, resolver, notifier).RegisterRoutes(r)
	NewElectionController(electionStorage, resolver, notifier).RegisterRoutes(r)
	NewResultsController(voteStorage).RegisterRoutes(r)

	return &testEnv{
		router:    r,
		elections: electionStorage,
		votes:     voteStorage,
		notifier:  notifier,
	}
}

func studentHeaders(t *testing.T, userID int) map[string]string {
	t.Helper()
	return bearerHeaders(t, userID, auth.RoleStudent)
}

func adminHeaders(t *testing.T, userID int) map[string]string {
	t.Helper()
	return bearerHeaders(t, userID, auth.RoleAdmin)
}

func bearerHeaders(t *testing.T, userID int, role string) map[string]string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, &auth.Identity{
		UserID:      userID,
		Role:        role,
		DisplayName: fmt.Sprintf("User %d", userID),
	}, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (e *testEnv) createElection(t *testing.T, start, end time.Time) *storage.Election {
	t.Helper()

	id, _, err := e.elections.Create(context.Background(), &storage.Election{
		Title:     "Guild President",
		StartTime: start,
		EndTime:   end,
		CreatedBy: 1,
	}, []*storage.Candidate{
		{Name: "Alice Akello", Manifesto: "Better labs"},
		{Name: "Brian Okello", Manifesto: "Cheaper meals"},
	})
	require.NoError(t, err)

	election, err := e.elections.Get(context.Background(), id)
	require.NoError(t, err)
	return election
}
