// Package statemachine provides a small allowed-transitions table used to vet
// direct document status changes at the registry boundary. The workflow
// projectors do not consult it; they implement the routing and resolution
// rules themselves.
package statemachine

// Machine enforces status transitions over an arbitrary string vocabulary.
type Machine struct {
	allowedTransitions map[string][]string
}

// New creates a machine from an allowed-transitions table.
func New(transitions map[string][]string) *Machine {
	return &Machine{allowedTransitions: transitions}
}

// CanTransition checks if a status transition is allowed.
func (m *Machine) CanTransition(from, to string) bool {
	allowed, exists := m.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next statuses for a given status.
func (m *Machine) AllowedTransitions(from string) []string {
	allowed, exists := m.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}
