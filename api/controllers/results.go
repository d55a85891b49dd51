package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CodeMark24/sample-e-voting-platform/api/models"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

type ResultsController struct {
	votesStorage storage.VoteStorage
}

func NewResultsController(voteStorage storage.VoteStorage) *ResultsController {
	return &ResultsController{votesStorage: voteStorage}
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	// Results are public; no auth group.
	engine.GET("/api/results/:id", c.getResults)
}

// getResults godoc
// @Summary Get election results
// @Description Returns the ranked tally for an election; public endpoint
// @Tags results
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} models.ResultsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/{id} [get]
func (c *ResultsController) getResults(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil || id <= 0 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing or invalid election ID"})
		return
	}

	results, err := c.votesStorage.Results(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrElectionNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "election not found"})
			return
		}
		logging.Log.Errorf("RESULTS: failed to fetch results for election %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "failed to fetch election results"})
		return
	}

	g.JSON(http.StatusOK, models.TransformResultsFromStorage(results))
}
