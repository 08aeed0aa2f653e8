package session

// Phase is the controller's lifecycle state.
type Phase string

const (
	PhaseLoading    Phase = "LOADING"
	PhaseActive     Phase = "ACTIVE"
	PhaseSubmitting Phase = "SUBMITTING"
	PhaseDone       Phase = "DONE"
	PhaseError      Phase = "ERROR"
)

// Terminal reports whether no further transitions can happen without Retry.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseError
}
