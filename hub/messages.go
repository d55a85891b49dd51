package hub

// Frame type catalog for the realtime channel. Client to server:
// authenticate, vote_cast, election_update, request_live_results.
// Server to client: authenticated, vote_notification, live_results,
// election_status_change, error.
const (
	TypeAuthenticate       = "authenticate"
	TypeVoteCast           = "vote_cast"
	TypeElectionUpdate     = "election_update"
	TypeRequestLiveResults = "request_live_results"

	TypeAuthenticated        = "authenticated"
	TypeVoteNotification     = "vote_notification"
	TypeLiveResults          = "live_results"
	TypeElectionStatusChange = "election_status_change"
	TypeError                = "error"
)

// ClientFrame is the superset of every client-to-server message.
type ClientFrame struct {
	Type       string `json:"type"`
	Token      string `json:"token,omitempty"`
	ElectionID int    `json:"election_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message,omitempty"`
}

type AuthenticatedFrame struct {
	Type string `json:"type"`
	Role string `json:"role"`
}

type VoteNotificationFrame struct {
	Type       string `json:"type"`
	ElectionID int    `json:"election_id"`
	Time       int64  `json:"time"`
}

type LiveResultsFrame struct {
	Type       string             `json:"type"`
	ElectionID int                `json:"election_id"`
	TotalVotes int                `json:"total_votes"`
	Results    LiveResultsPayload `json:"results"`
}

type LiveResultsPayload struct {
	Candidates []LiveCandidateResult `json:"candidates"`
}

type LiveCandidateResult struct {
	CandidateID int    `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int    `json:"vote_count"`
}

type StatusChangeFrame struct {
	Type       string `json:"type"`
	ElectionID int    `json:"election_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
