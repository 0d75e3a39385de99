package participant

import (
	"fmt"
	"strings"
	"time"
)

// Participant is a member's private stand-in for a rival drafter. It is not
// a Membership: only the owning member ever sees it.
type Participant struct {
	ID       string
	UserID   string
	LeagueID string
	Name     string
	// Budget defaults to the league's total budget at creation.
	Budget    int64
	CreatedAt time.Time
}

func (p Participant) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("participant id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("participant user id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("participant league id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("participant name is required")
	}
	if p.Budget <= 0 {
		return fmt.Errorf("participant budget must be greater than zero")
	}

	return nil
}

// Assignment links a participant to a catalog player at a cost. A player can
// be assigned to at most one participant within one member's (user, league)
// bookkeeping scope.
type Assignment struct {
	UserID        string
	LeagueID      string
	ParticipantID string
	PlayerID      string
	Cost          int64
	AssignedAt    time.Time
}

func (a Assignment) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("assignment user id is required")
	}
	if a.LeagueID == "" {
		return fmt.Errorf("assignment league id is required")
	}
	if a.ParticipantID == "" {
		return fmt.Errorf("assignment participant id is required")
	}
	if a.PlayerID == "" {
		return fmt.Errorf("assignment player id is required")
	}
	if a.Cost <= 0 {
		return fmt.Errorf("assignment cost must be greater than zero")
	}

	return nil
}
