package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CodeMark24/sample-e-voting-platform/auth"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
	"github.com/CodeMark24/sample-e-voting-platform/storage"
)

// ResultSource supplies current tallies for live_results broadcasts.
// Satisfied by storage.SQLVoteStorage.
type ResultSource interface {
	Results(ctx context.Context, electionID int) (*storage.ElectionResults, error)
}

type inboundFrame struct {
	client  *Client
	payload []byte
}

// Hub is the realtime fan-out service. A single goroutine (Run) owns the
// connection registry, so registry mutation and broadcast iteration need
// no locking. Delivery is best-effort and at-most-once: nothing is
// queued for absent peers and a failed send is only logged.
type Hub struct {
	resolver auth.Resolver
	results  ResultSource

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	commands   chan func()

	clients map[*Client]bool

	fetchTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewHub(resolver auth.Resolver, results ResultSource) *Hub {
	return &Hub{
		resolver:     resolver,
		results:      results,
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inboundFrame),
		commands:     make(chan func(), 64),
		clients:      make(map[*Client]bool),
		fetchTimeout: 5 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect cross-origin; the frames carry
			// their own authentication.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades an HTTP request and registers the connection.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Log.Warnf("HUB: upgrade failed: %v", err)
		return
	}

	c := newClient(h, conn)
	h.register <- c
	go c.writePump()
	go c.readPump()
}

// Run is the hub event loop. It returns when ctx is cancelled, closing
// every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			logging.Log.Infof("HUB: new connection %s (%d live)", c.id, len(h.clients))
		case c := <-h.unregister:
			h.drop(c)
		case f := <-h.inbound:
			h.handleFrame(f.client, f.payload)
		case cmd := <-h.commands:
			cmd()
		}
	}
}

// drop removes a connection from the registry. Idempotent: a connection
// already removed is ignored.
func (h *Hub) drop(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
	logging.Log.Infof("HUB: connection %s disconnected (%d live)", c.id, len(h.clients))
}

func (h *Hub) handleFrame(c *Client, payload []byte) {
	// The sender may already be gone when its last frame is processed.
	if !h.clients[c] {
		return
	}

	var frame ClientFrame
	if err := json.Unmarshal(payload, &frame); err != nil || frame.Type == "" {
		h.sendError(c, "invalid message format")
		return
	}

	switch frame.Type {
	case TypeAuthenticate:
		h.authenticate(c, frame.Token)
	case TypeVoteCast:
		if c.identity == nil {
			h.sendError(c, "authentication required")
			return
		}
		logging.Log.Infof("HUB: vote cast in election %d reported by %s", frame.ElectionID, c.id)
		h.broadcastToRole(auth.RoleAdmin, mustMarshal(&VoteNotificationFrame{
			Type:       TypeVoteNotification,
			ElectionID: frame.ElectionID,
			Time:       time.Now().Unix(),
		}))
		h.fetchAndBroadcastResults(frame.ElectionID)
	case TypeElectionUpdate:
		if c.identity == nil || c.identity.Role != auth.RoleAdmin {
			h.sendError(c, "admin permission required")
			return
		}
		message := frame.Message
		if message == "" {
			message = "Election status changed to " + frame.Status + "."
		}
		h.broadcastToAll(mustMarshal(&StatusChangeFrame{
			Type:       TypeElectionStatusChange,
			ElectionID: frame.ElectionID,
			Status:     frame.Status,
			Message:    message,
		}))
	case TypeRequestLiveResults:
		if c.identity == nil || c.identity.Role != auth.RoleAdmin {
			h.sendError(c, "admin permission required")
			return
		}
		h.fetchAndBroadcastResults(frame.ElectionID)
	default:
		h.sendError(c, "unknown message type: "+frame.Type)
	}
}

// authenticate resolves the token and promotes the connection. Failure
// leaves the connection open and unauthenticated so the client may retry.
func (h *Hub) authenticate(c *Client, token string) {
	if token == "" {
		h.sendError(c, "missing session token for authentication")
		return
	}

	identity, err := h.resolver.Resolve(token)
	if err != nil {
		logging.Log.Warnf("HUB: authentication failed for connection %s: %v", c.id, err)
		h.sendError(c, "authentication failed")
		return
	}

	c.identity = identity
	logging.Log.Infof("HUB: connection %s authenticated as %s (%s)", c.id, identity.DisplayName, identity.Role)
	c.queue(mustMarshal(&AuthenticatedFrame{Type: TypeAuthenticated, Role: identity.Role}))
}

// fetchAndBroadcastResults loads the tally off the event loop so a slow
// query never stalls other connections, then re-enters the loop to
// broadcast. A fetch failure is logged and the broadcast skipped; the
// ledger is unaffected either way.
func (h *Hub) fetchAndBroadcastResults(electionID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.fetchTimeout)
		defer cancel()

		res, err := h.results.Results(ctx, electionID)
		if err != nil {
			logging.Log.Errorf("HUB: failed to fetch results for election %d: %v", electionID, err)
			return
		}

		frame := &LiveResultsFrame{
			Type:       TypeLiveResults,
			ElectionID: electionID,
			TotalVotes: res.TotalVotes,
		}
		for _, cr := range res.Candidates {
			frame.Results.Candidates = append(frame.Results.Candidates, LiveCandidateResult{
				CandidateID: cr.CandidateID,
				Name:        cr.Name,
				VoteCount:   cr.VoteCount,
			})
		}

		h.command(func() { h.broadcastToAll(mustMarshal(frame)) })
	}()
}

// NotifyVoteCast is the server-side entry point used after a vote
// commits: admins get a vote_notification and everyone gets refreshed
// results. Never blocks the caller.
func (h *Hub) NotifyVoteCast(electionID int) {
	h.command(func() {
		h.broadcastToRole(auth.RoleAdmin, mustMarshal(&VoteNotificationFrame{
			Type:       TypeVoteNotification,
			ElectionID: electionID,
			Time:       time.Now().Unix(),
		}))
		h.fetchAndBroadcastResults(electionID)
	})
}

// NotifyStatusChange broadcasts a lifecycle change to all authenticated
// connections. Never blocks the caller.
func (h *Hub) NotifyStatusChange(electionID int, status, message string) {
	h.command(func() {
		h.broadcastToAll(mustMarshal(&StatusChangeFrame{
			Type:       TypeElectionStatusChange,
			ElectionID: electionID,
			Status:     status,
			Message:    message,
		}))
	})
}

// command posts work onto the event loop without blocking. If the hub
// is saturated the notification is dropped; it is a best-effort side
// channel, never a dependency of the ledger.
func (h *Hub) command(cmd func()) {
	select {
	case h.commands <- cmd:
	default:
		logging.Log.Warn("HUB: command queue full, dropping notification")
	}
}

func (h *Hub) broadcastToAll(payload []byte) {
	for c := range h.clients {
		if c.identity != nil {
			c.queue(payload)
		}
	}
}

func (h *Hub) broadcastToRole(role string, payload []byte) {
	for c := range h.clients {
		if c.identity != nil && c.identity.Role == role {
			c.queue(payload)
		}
	}
}

func (h *Hub) sendError(c *Client, message string) {
	c.queue(mustMarshal(&ErrorFrame{Type: TypeError, Message: message}))
}

func mustMarshal(v any) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		logging.Log.Errorf("HUB: failed to marshal frame: %v", err)
		return []byte(`{"type":"error","message":"internal error"}`)
	}
	return payload
}
