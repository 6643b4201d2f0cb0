package pipeline

// State is a stage of one transcribe request.
type State string

const (
	StateReceivedUpload State = "received_upload"
	StateTranscribing   State = "transcribing"
	StatePersisting     State = "persisting"

	// Terminal states.
	StateDone           State = "done"
	StatePersistFailed  State = "persist_failed_done"
	StateRejectedInput  State = "rejected_input"
	StateUpstreamFailed State = "upstream_failed"
	StateFailed         State = "failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StatePersistFailed, StateRejectedInput, StateUpstreamFailed, StateFailed:
		return true
	}
	return false
}

// Succeeded reports whether the caller receives a transcript in s.
func (s State) Succeeded() bool {
	return s == StateDone || s == StatePersistFailed
}
