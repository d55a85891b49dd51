package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/CodeMark24/sample-e-voting-platform/api/controllers"
	"github.com/CodeMark24/sample-e-voting-platform/api/transport"
	"github.com/CodeMark24/sample-e-voting-platform/auth"
	"github.com/CodeMark24/sample-e-voting-platform/hub"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	db, err := storage.Open(s.config.DatabasePath)
	if err != nil {
		logging.Log.Errorf("failed to open storage: %v", err)
		panic("failed to open storage")
	}

	electionStorage := &storage.SQLElectionStorage{DB: db}
	voteStorage := &storage.SQLVoteStorage{DB: db}

	if s.config.SessionSecret == "" {
		logging.Log.Error("auth.sessionSecret is not configured")
		panic("auth.sessionSecret is not configured")
	}
	resolver := &auth.JWTResolver{Secret: []byte(s.config.SessionSecret)}

	// Start the realtime hub event loop
	notificationHub := hub.NewHub(resolver, voteStorage)
	go notificationHub.Run(context.Background())
	r.GET("/ws", func(g *gin.Context) {
		notificationHub.HandleConnection(g.Writer, g.Request)
	})

	//Register controllers
	votingController := controllers.NewVotingController(voteStorage, resolver, notificationHub)
	votingController.RegisterRoutes(r)
	electionController := controllers.NewElectionController(electionStorage, resolver, notificationHub)
	electionController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(voteStorage)
	resultsController.RegisterRoutes(r)

	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", s.config.Port))
	if err := r.Run(fmt.Sprintf(":%d", s.config.Port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
