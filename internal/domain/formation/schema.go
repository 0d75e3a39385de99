package formation

import (
	"github.com/fantasta-tools/asta-ledger/internal/domain/roles"
)

// Position is one slot on the board: a stable code within the schema, the
// role tags allowed to fill it, and a board coordinate for rendering.
type Position struct {
	Code    string
	Allowed []roles.Role
	X       int
	Y       int
}

// Schema is a named formation, e.g. "4-3-3", with an ordered position list.
type Schema struct {
	Name      string
	Mode      roles.GameMode
	Positions []Position
}

func (s Schema) position(code string) (Position, bool) {
	for _, p := range s.Positions {
		if p.Code == code {
			return p, true
		}
	}
	return Position{}, false
}

// SchemaByName resolves a built-in schema for the league's mode.
func SchemaByName(mode roles.GameMode, name string) (Schema, bool) {
	var table []Schema
	switch mode {
	case roles.ModeClassic:
		table = classicSchemas
	case roles.ModeMantra:
		table = mantraSchemas
	default:
		return Schema{}, false
	}

	for _, s := range table {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}

// SchemaNames lists the built-in schema names for a mode, in table order.
func SchemaNames(mode roles.GameMode) []string {
	var table []Schema
	switch mode {
	case roles.ModeClassic:
		table = classicSchemas
	case roles.ModeMantra:
		table = mantraSchemas
	}

	names := make([]string, 0, len(table))
	for _, s := range table {
		names = append(names, s.Name)
	}
	return names
}

func classicSchema(name string, defenders, midfielders, forwards int) Schema {
	positions := make([]Position, 0, 11)
	positions = append(positions, Position{Code: "P", Allowed: []roles.Role{roles.ClassicGoalkeeper}, X: 2, Y: 0})
	for i := 0; i < defenders; i++ {
		positions = append(positions, Position{
			Code:    "D" + digit(i+1),
			Allowed: []roles.Role{roles.ClassicDefender},
			X:       i, Y: 1,
		})
	}
	for i := 0; i < midfielders; i++ {
		positions = append(positions, Position{
			Code:    "C" + digit(i+1),
			Allowed: []roles.Role{roles.ClassicMidfielder},
			X:       i, Y: 2,
		})
	}
	for i := 0; i < forwards; i++ {
		positions = append(positions, Position{
			Code:    "A" + digit(i+1),
			Allowed: []roles.Role{roles.ClassicForward},
			X:       i, Y: 3,
		})
	}

	return Schema{Name: name, Mode: roles.ModeClassic, Positions: positions}
}

func digit(n int) string {
	return string(rune('0' + n))
}

var classicSchemas = []Schema{
	classicSchema("3-4-3", 3, 4, 3),
	classicSchema("3-5-2", 3, 5, 2),
	classicSchema("4-3-3", 4, 3, 3),
	classicSchema("4-4-2", 4, 4, 2),
	classicSchema("4-5-1", 4, 5, 1),
	classicSchema("5-3-2", 5, 3, 2),
	classicSchema("5-4-1", 5, 4, 1),
}

func pos(code string, x, y int, allowed ...roles.Role) Position {
	return Position{Code: code, Allowed: allowed, X: x, Y: y}
}

// Mantra schemas pin fine-grained roles per slot, the way the Mantra game
// board does.
var mantraSchemas = []Schema{
	{
		Name: "4-3-3", Mode: roles.ModeMantra,
		Positions: []Position{
			pos("Por", 2, 0, roles.MantraPor),
			pos("Dd", 0, 1, roles.MantraDd),
			pos("Dc1", 1, 1, roles.MantraDc),
			pos("Dc2", 2, 1, roles.MantraDc),
			pos("Ds", 3, 1, roles.MantraDs),
			pos("M1", 1, 2, roles.MantraM, roles.MantraC),
			pos("M2", 2, 2, roles.MantraM),
			pos("C", 3, 2, roles.MantraC),
			pos("W1", 0, 3, roles.MantraW, roles.MantraA),
			pos("Pc", 2, 3, roles.MantraPc, roles.MantraA),
			pos("W2", 4, 3, roles.MantraW, roles.MantraA),
		},
	},
	{
		Name: "3-4-3", Mode: roles.ModeMantra,
		Positions: []Position{
			pos("Por", 2, 0, roles.MantraPor),
			pos("Dc1", 1, 1, roles.MantraDc),
			pos("Dc2", 2, 1, roles.MantraDc),
			pos("Dc3", 3, 1, roles.MantraDc),
			pos("E1", 0, 2, roles.MantraE, roles.MantraW),
			pos("M1", 1, 2, roles.MantraM, roles.MantraC),
			pos("M2", 2, 2, roles.MantraM, roles.MantraC),
			pos("E2", 4, 2, roles.MantraE, roles.MantraW),
			pos("W1", 0, 3, roles.MantraW, roles.MantraA),
			pos("Pc", 2, 3, roles.MantraPc, roles.MantraA),
			pos("W2", 4, 3, roles.MantraW, roles.MantraA),
		},
	},
	{
		Name: "3-5-2", Mode: roles.ModeMantra,
		Positions: []Position{
			pos("Por", 2, 0, roles.MantraPor),
			pos("Dc1", 1, 1, roles.MantraDc),
			pos("Dc2", 2, 1, roles.MantraDc),
			pos("Dc3", 3, 1, roles.MantraDc),
			pos("E1", 0, 2, roles.MantraE),
			pos("M1", 1, 2, roles.MantraM, roles.MantraC),
			pos("M2", 2, 2, roles.MantraM),
			pos("C", 3, 2, roles.MantraC, roles.MantraT),
			pos("E2", 4, 2, roles.MantraE),
			pos("A1", 1, 3, roles.MantraA, roles.MantraPc),
			pos("A2", 3, 3, roles.MantraA, roles.MantraPc),
		},
	},
	{
		Name: "4-4-2", Mode: roles.ModeMantra,
		Positions: []Position{
			pos("Por", 2, 0, roles.MantraPor),
			pos("Dd", 0, 1, roles.MantraDd),
			pos("Dc1", 1, 1, roles.MantraDc),
			pos("Dc2", 2, 1, roles.MantraDc),
			pos("Ds", 3, 1, roles.MantraDs),
			pos("E1", 0, 2, roles.MantraE, roles.MantraW),
			pos("M1", 1, 2, roles.MantraM, roles.MantraC),
			pos("M2", 2, 2, roles.MantraM, roles.MantraC),
			pos("E2", 4, 2, roles.MantraE, roles.MantraW),
			pos("A1", 1, 3, roles.MantraA, roles.MantraPc),
			pos("A2", 3, 3, roles.MantraA, roles.MantraPc),
		},
	},
}
