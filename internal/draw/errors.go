package draw

import "fmt"

// Constraint names reported by InfeasibleError.
const (
	ConstraintRematch     = "rematch"
	ConstraintInstitution = "institution_clash"
	ConstraintPanelSize   = "panel_size"
	ConstraintRosterSize  = "roster_size"
)

// InfeasibleError reports that no legal draw or allocation exists under the
// current constraints and configuration. It carries the offending room and
// violated constraint so an operator can relax configuration and retry.
type InfeasibleError struct {
	Room       int    // 1-based room rank, 0 when not room-specific
	Constraint string // which rule could not be satisfied
	Detail     string
}

func (e *InfeasibleError) Error() string {
	if e.Room > 0 {
		return fmt.Sprintf("draw infeasible at room %d (%s): %s", e.Room, e.Constraint, e.Detail)
	}
	return fmt.Sprintf("draw infeasible (%s): %s", e.Constraint, e.Detail)
}

// IntegrityError reports stored results referencing entities missing from
// the roster, or an entity participating twice in one round.
type IntegrityError struct {
	Entity string // "team" or "adjudicator"
	ID     int
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %d %s", e.Entity, e.ID, e.Detail)
}

// ConfigError reports invalid draw configuration, rejected before any
// computation begins.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid draw configuration: %s %s", e.Field, e.Detail)
}
