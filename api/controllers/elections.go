package controllers

import (
	"errors"
	"fmt"
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

// StatusNotifier is the hub seen from admin operations.
type StatusNotifier interface {
	NotifyStatusChange(electionID int, status, message string)
}

type ElectionController struct {
	electionsStorage storage.ElectionStorage
	resolver         auth.Resolver
	notifier         StatusNotifier
}

func NewElectionController(electionStorage storage.ElectionStorage, resolver auth.Resolver, notifier StatusNotifier) *ElectionController {
	return &ElectionController{
		electionsStorage: electionStorage,
		resolver:         resolver,
		notifier:         notifier,
	}
}

func (c *ElectionController) RegisterRoutes(engine *gin.Engine) {
	adminGroup := engine.Group("/api/admin/elections", transport.AuthMiddleware(c.resolver, auth.RoleAdmin))
	adminGroup.POST("", c.createElection)
	adminGroup.POST("/:id/cancel", c.cancelElection)

	engine.GET("/api/elections", transport.AuthMiddleware(c.resolver), c.listElections)
}

// createElection godoc
// @Summary Create an election
// @Description Creates an election with its candidates as one atomic unit
// @Tags admin
// @Accept json
// @Produce json
// @Param election body models.CreateElectionRequest true "Election details"
// @Success 201 {object} models.CreateElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security SessionToken
// @Router /api/admin/elections [post]
func (c *ElectionController) createElection(g *gin.Context) {
	identity, ok := transport.IdentityFromContext(g)
	if !ok {
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "access denied, please log in"})
		return
	}

	var req models.CreateElectionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "election title cannot be empty"})
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.StartTime.Before(req.EndTime) {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "end time must be after start time"})
		return
	}

	candidates := make([]*storage.Candidate, 0, len(req.Candidates))
	for _, entry := range req.Candidates {
		candidates = append(candidates, &storage.Candidate{
			Name:      entry.Name,
			Manifesto: entry.Manifesto,
		})
	}

	election := &storage.Election{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   identity.UserID,
	}

	id, added, err := c.electionsStorage.Create(g.Request.Context(), election, candidates)
	if err != nil {
		if errors.Is(err, storage.ErrNotEnoughCandidates) {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "at least two valid candidates are required"})
			return
		}
		logging.Log.Errorf("ADMIN: failed to create election: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "election creation failed"})
		return
	}

	logging.Log.Infof("ADMIN: election %d created by admin %d with %d candidates", id, identity.UserID, added)
	g.JSON(http.StatusCreated, &models.CreateElectionResponse{
		Message:         "Election successfully created and scheduled.",
		ElectionID:      id,
		CandidatesAdded: added,
	})
}

// cancelElection godoc
// @Summary Cancel an election
// @Description Marks an election cancelled; cancellation is terminal
// @Tags admin
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} models.CancelElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already cancelled"
// @Failure 500 {object} models.ErrorResponse
// @Security SessionToken
// @Router /api/admin/elections/{id}/cancel [post]
func (c *ElectionController) cancelElection(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil || id <= 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election ID format"})
		return
	}

	if err := c.electionsStorage.Cancel(g.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, storage.ErrElectionNotFound):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "election not found"})
		case errors.Is(err, storage.ErrAlreadyCancelled):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "election is already cancelled"})
		default:
			logging.Log.Errorf("ADMIN: failed to cancel election %d: %v", id, err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not cancel election"})
		}
		return
	}

	logging.Log.Infof("ADMIN: election %d cancelled", id)
	c.notifier.NotifyStatusChange(id, string(storage.StatusCancelled),
		fmt.Sprintf("Election %d has been cancelled.", id))

	g.JSON(http.StatusOK, &models.CancelElectionResponse{
		Message:    "Election has been cancelled successfully.",
		ElectionID: id,
	})
}

// listElections godoc
// @Summary List elections by status
// @Description Lists elections filtered by upcoming, active, completed or all
// @Tags elections
// @Produce json
// @Param status query string false "upcoming | active | completed | all"
// @Success 200 {array} models.ElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security SessionToken
// @Router /api/elections [get]
func (c *ElectionController) listElections(g *gin.Context) {
	filter := g.DefaultQuery("status", "all")
	switch filter {
	case "upcoming", "active", "completed", "all":
	default:
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid status filter"})
		return
	}

	now, err := c.electionsStorage.Now(g.Request.Context())
	if err != nil {
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list elections"})
		return
	}

	elections, err := c.electionsStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to list elections: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list elections"})
		return
	}

	// One classification path for every filter keeps the window
	// boundary convention identical across endpoints.
	responses := make([]models.ElectionResponse, 0, len(elections))
	for _, e := range elections {
		status := e.StatusAt(now)
		if filter != "all" && string(status) != filter {
			continue
		}
		responses = append(responses, models.TransformElectionFromStorage(e, now))
	}

	g.JSON(http.StatusOK, responses)
}
