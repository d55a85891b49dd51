package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CodeMark24/sample-e-voting-platform/api/models"
	"github.com/CodeMark24/sample-e-voting-platform/api/transport"
	"github.com/CodeMark24/sample-e-voting-platform/auth"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

// Notifier is the hub seen from the voting path: fire-and-forget,
// invoked strictly after the vote transaction commits.
type Notifier interface {
	NotifyVoteCast(electionID int)
}

type VotingController struct {
	votesStorage storage.VoteStorage
	resolver     auth.Resolver
	notifier     Notifier
}

func NewVotingController(voteStorage storage.VoteStorage, resolver auth.Resolver, notifier Notifier) *VotingController {
	return &VotingController{
		votesStorage: voteStorage,
		resolver:     resolver,
		notifier:     notifier,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api", transport.AuthMiddleware(c.resolver, auth.RoleStudent))

	group.POST("/vote", c.castVote)
	group.GET("/vote/status", c.getVoteStatus)
}

// castVote godoc
// @Summary Cast a vote
// @Description Records one vote for the authenticated student in an active election
// @Tags voting
// @Accept json
// @Produce json
// @Param vote body models.CastVoteRequest true "Vote submission"
// @Success 200 {object} models.CastVoteResponse
// @Failure 400 {object} models.ErrorResponse "Invalid payload or candidate"
// @Failure 401 {object} models.ErrorResponse "Not logged in"
// @Failure 403 {object} models.ErrorResponse "Election not active"
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Failure 409 {object} models.ErrorResponse "Already voted"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Security SessionToken
// @Router /api/vote [post]
func (c *VotingController) castVote(g *gin.Context) {
	identity, ok := transport.IdentityFromContext(g)
	if !ok {
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "access denied, please log in"})
		return
	}

	var req models.CastVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.ElectionID <= 0 || req.CandidateID <= 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing election_id or candidate_id"})
		return
	}

	receipt, err := c.votesStorage.Cast(g.Request.Context(), req.ElectionID, identity.UserID, req.CandidateID)
	if err != nil {
		var notActive *storage.NotActiveError
		switch {
		case errors.Is(err, storage.ErrElectionNotFound):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "election not found"})
		case errors.As(err, &notActive):
			g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: notActive.Error()})
		case errors.Is(err, storage.ErrCandidateNotFound):
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid candidate for this election"})
		case errors.Is(err, storage.ErrAlreadyVoted):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "you have already voted in this election"})
		default:
			logging.Log.Errorf("VOTE: failed to cast vote for voter %d: %v", identity.UserID, err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not save vote"})
		}
		return
	}

	// The vote is committed; the realtime update is best-effort and must
	// never fail the request.
	c.notifier.NotifyVoteCast(receipt.ElectionID)

	g.JSON(http.StatusOK, models.TransformReceiptFromStorage(receipt))
}

// getVoteStatus godoc
// @Summary Check vote status
// @Description Reports which of the given elections the student has voted in
// @Tags voting
// @Produce json
// @Param election_ids query string false "Comma-separated election IDs"
// @Success 200 {object} models.VoteStatusResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security SessionToken
// @Router /api/vote/status [get]
func (c *VotingController) getVoteStatus(g *gin.Context) {
	identity, ok := transport.IdentityFromContext(g)
	if !ok {
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "access denied, please log in"})
		return
	}

	var ids []int
	for _, part := range strings.Split(g.Query("election_ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}

	voted, err := c.votesStorage.VotedElections(g.Request.Context(), identity.UserID, ids)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to check vote status for voter %d: %v", identity.UserID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not check vote status"})
		return
	}

	g.JSON(http.StatusOK, &models.VoteStatusResponse{VotedElections: voted})
}
