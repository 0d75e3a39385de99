package draft

import (
	"fmt"
	"time"
)

// Status is the single tagged variant for a player's draft state. Interest,
// ownership and removal are never independent flags, so combinations like
// removed+owned are unrepresentable.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusInteresting  Status = "interesting"
	StatusOwned        Status = "owned"
	StatusRemoved      Status = "removed"
	StatusTakenByOther Status = "taken_by_other"
)

var AllStatuses = map[Status]struct{}{
	StatusAvailable:    {},
	StatusInteresting:  {},
	StatusOwned:        {},
	StatusRemoved:      {},
	StatusTakenByOther: {},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := AllStatuses[s]; !ok {
		return "", fmt.Errorf("invalid draft status: %q", raw)
	}
	return s, nil
}

// State is one member's private view of one catalog player in one league,
// keyed by (UserID, LeagueID, PlayerID). Rows are created lazily on first
// edit with StatusAvailable.
type State struct {
	UserID        string
	LeagueID      string
	PlayerID      string
	Status        Status
	ExpectedPrice int64
	// Cost is the actual auction cost; meaningful only when owned, or as
	// the informational rival cost when taken by another drafter.
	Cost       int64
	Buyer      string
	Note       string
	Tier       string
	AcquiredAt *time.Time
	RemovedAt  *time.Time
	UpdatedAt  time.Time
}

// NewState is the lazy default row.
func NewState(userID, leagueID, playerID string) State {
	return State{
		UserID:   userID,
		LeagueID: leagueID,
		PlayerID: playerID,
		Status:   StatusAvailable,
	}
}

// IsDefault reports whether the row still carries no member customization.
// Import never overwrites a customized row.
func (s State) IsDefault() bool {
	return s.Status == StatusAvailable &&
		s.ExpectedPrice == 0 &&
		s.Cost == 0 &&
		s.Buyer == "" &&
		s.Note == ""
}

func (s State) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("draft state user id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("draft state league id is required")
	}
	if s.PlayerID == "" {
		return fmt.Errorf("draft state player id is required")
	}
	if _, ok := AllStatuses[s.Status]; !ok {
		return fmt.Errorf("invalid draft status: %s", s.Status)
	}

	// Timestamp coupling: acquired set only for owned/taken_by_other,
	// removed only for removed, never both.
	switch s.Status {
	case StatusOwned, StatusTakenByOther:
		if s.AcquiredAt == nil {
			return fmt.Errorf("status %s requires acquired timestamp", s.Status)
		}
		if s.RemovedAt != nil {
			return fmt.Errorf("status %s cannot carry removed timestamp", s.Status)
		}
	case StatusRemoved:
		if s.RemovedAt == nil {
			return fmt.Errorf("status removed requires removed timestamp")
		}
		if s.AcquiredAt != nil {
			return fmt.Errorf("status removed cannot carry acquired timestamp")
		}
	default:
		if s.AcquiredAt != nil || s.RemovedAt != nil {
			return fmt.Errorf("status %s cannot carry timestamps", s.Status)
		}
	}

	if s.Status == StatusOwned && s.Cost <= 0 {
		return fmt.Errorf("status owned requires a positive cost")
	}
	if s.Status == StatusTakenByOther && s.Buyer == "" {
		return fmt.Errorf("status taken_by_other requires a buyer")
	}

	return nil
}
