package roles

import (
	"fmt"
	"strings"
)

// GameMode selects which role alphabet a league speaks. Classic uses the
// four broad positions; Mantra uses the twelve fine-grained ones.
type GameMode string

const (
	ModeClassic GameMode = "classic"
	ModeMantra  GameMode = "mantra"
)

func ParseGameMode(raw string) (GameMode, error) {
	switch GameMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeClassic:
		return ModeClassic, nil
	case ModeMantra:
		return ModeMantra, nil
	}
	return "", fmt.Errorf("invalid game mode: %q", raw)
}

// Role is one position tag. A player carries one Classic tag or one or more
// Mantra tags.
type Role string

const (
	ClassicGoalkeeper Role = "P"
	ClassicDefender   Role = "D"
	ClassicMidfielder Role = "C"
	ClassicForward    Role = "A"

	MantraPor Role = "Por"
	MantraDs  Role = "Ds"
	MantraDd  Role = "Dd"
	MantraDc  Role = "Dc"
	MantraB   Role = "B"
	MantraE   Role = "E"
	MantraM   Role = "M"
	MantraC   Role = "C"
	MantraW   Role = "W"
	MantraT   Role = "T"
	MantraA   Role = "A"
	MantraPc  Role = "Pc"
)

var ClassicRoles = map[Role]struct{}{
	ClassicGoalkeeper: {},
	ClassicDefender:   {},
	ClassicMidfielder: {},
	ClassicForward:    {},
}

var MantraRoles = map[Role]struct{}{
	MantraPor: {},
	MantraDs:  {},
	MantraDd:  {},
	MantraDc:  {},
	MantraB:   {},
	MantraE:   {},
	MantraM:   {},
	MantraC:   {},
	MantraW:   {},
	MantraT:   {},
	MantraA:   {},
	MantraPc:  {},
}

// classicByMantra is total over MantraRoles so ToClassic never fails.
var classicByMantra = map[Role]Role{
	MantraPor: ClassicGoalkeeper,
	MantraDs:  ClassicDefender,
	MantraDd:  ClassicDefender,
	MantraDc:  ClassicDefender,
	MantraB:   ClassicDefender,
	MantraE:   ClassicMidfielder,
	MantraM:   ClassicMidfielder,
	MantraC:   ClassicMidfielder,
	MantraW:   ClassicMidfielder,
	MantraT:   ClassicMidfielder,
	MantraA:   ClassicForward,
	MantraPc:  ClassicForward,
}

// Valid reports whether r belongs to the mode's alphabet.
func Valid(r Role, mode GameMode) bool {
	if mode == ModeMantra {
		_, ok := MantraRoles[r]
		return ok
	}
	_, ok := ClassicRoles[r]
	return ok
}

// ToClassic maps any role onto the four Classic positions. Classic roles map
// to themselves.
func ToClassic(r Role) (Role, bool) {
	if _, ok := ClassicRoles[r]; ok {
		return r, true
	}
	c, ok := classicByMantra[r]
	return c, ok
}

// Primary is the leading tag of a player's role list; ordering comes from
// the import source and is preserved end to end.
func Primary(tags []Role) (Role, bool) {
	if len(tags) == 0 {
		return "", false
	}
	return tags[0], true
}

// Buckets returns the counting buckets a tagged player occupies for roster
// accounting. In Mantra every distinct tag is a bucket; in Classic a player
// occupies exactly one of the four positions, derived from the primary tag.
func Buckets(tags []Role, mode GameMode) []Role {
	if len(tags) == 0 {
		return nil
	}

	if mode == ModeMantra {
		out := make([]Role, 0, len(tags))
		seen := make(map[Role]struct{}, len(tags))
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
		return out
	}

	primary, _ := Primary(tags)
	classic, ok := ToClassic(primary)
	if !ok {
		return nil
	}
	return []Role{classic}
}

// Intersects reports whether the two role lists share at least one tag.
func Intersects(a, b []Role) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra == rb {
				return true
			}
		}
	}
	return false
}

// ParseTags decodes a semicolon-delimited tag string like "Dd;Dc" into an
// ordered, deduplicated role list validated against the mode's alphabet.
func ParseTags(raw string, mode GameMode) ([]Role, error) {
	parts := strings.Split(raw, ";")
	tags := make([]Role, 0, len(parts))
	seen := make(map[Role]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		role := Role(part)
		if !Valid(role, mode) {
			return nil, fmt.Errorf("invalid %s role tag: %q", mode, part)
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		tags = append(tags, role)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("at least one role tag is required")
	}

	return tags, nil
}

// FormatTags is the inverse of ParseTags.
func FormatTags(tags []Role) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, ";")
}
