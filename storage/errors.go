package storage

import (
	"errors"
	"fmt"
	"time"
)

var ErrElectionNotFound = errors.New("election not found in storage")
var ErrCandidateNotFound = errors.New("candidate not found for election")
var ErrAlreadyVoted = errors.New("voter already has a vote in this election")
var ErrAlreadyCancelled = errors.New("election is already cancelled")
var ErrNotEnoughCandidates = errors.New("an election requires at least two valid candidates")

// NotActiveError is returned when a vote arrives outside the election's
// voting window. It carries the window bounds so callers can tell the
// voter when voting opens or closed.
type NotActiveError struct {
	Status    ElectionStatus
	StartTime time.Time
	EndTime   time.Time
}

func (e *NotActiveError) Error() string {
	switch e.Status {
	case StatusUpcoming:
		return fmt.Sprintf("election has not started yet, starts: %s", e.StartTime.Format(time.DateTime))
	case StatusCancelled:
		return "election has been cancelled"
	default:
		return fmt.Sprintf("election has ended, ended: %s", e.EndTime.Format(time.DateTime))
	}
}
