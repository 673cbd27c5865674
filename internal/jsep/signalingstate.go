// Package jsep implements the RFC 8829 signalling-state machine the
// peer-connection orchestrator enforces around SetLocalDescription and
// SetRemoteDescription.
package jsep

import (
	"fmt"

	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// StateChangeOp names which side of the offer/answer exchange a
// transition is applying.
type StateChangeOp int

// The two operations the signalling-state table is indexed by.
const (
	OpSetLocal StateChangeOp = iota + 1
	OpSetRemote
)

func (op StateChangeOp) String() string {
	switch op {
	case OpSetLocal:
		return "SetLocal"
	case OpSetRemote:
		return "SetRemote"
	default:
		return "unknown state change operation"
	}
}

// SDPType is the type attribute of an SDP description.
type SDPType int

// SDP description types this state machine cares about.
const (
	SDPTypeOffer SDPType = iota + 1
	SDPTypeAnswer
	SDPTypePranswer
	SDPTypeRollback
)

func (t SDPType) String() string {
	switch t {
	case SDPTypeOffer:
		return "offer"
	case SDPTypeAnswer:
		return "answer"
	case SDPTypePranswer:
		return "pranswer"
	case SDPTypeRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// State is one of the six signalling states RFC 8829 §4.3 defines.
type State int

// Signalling states.
const (
	StateStable State = iota + 1
	StateHaveLocalOffer
	StateHaveRemoteOffer
	StateHaveLocalPranswer
	StateHaveRemotePranswer
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStable:
		return "stable"
	case StateHaveLocalOffer:
		return "have-local-offer"
	case StateHaveRemoteOffer:
		return "have-remote-offer"
	case StateHaveLocalPranswer:
		return "have-local-pranswer"
	case StateHaveRemotePranswer:
		return "have-remote-pranswer"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CheckNext validates the transition (cur, op, sdpType) -> next against
// the JSEP table, returning next on success or an rtcerr.StateError
// naming the illegal transition.
func CheckNext(cur, next State, op StateChangeOp, sdpType SDPType) (State, error) {
	if sdpType == SDPTypeRollback && cur == StateStable {
		return cur, &rtcerr.StateError{Err: fmt.Errorf("jsep: cannot rollback from stable state")}
	}

	switch cur {
	case StateStable:
		switch op {
		case OpSetLocal:
			if sdpType == SDPTypeOffer && next == StateHaveLocalOffer {
				return next, nil
			}
		case OpSetRemote:
			if sdpType == SDPTypeOffer && next == StateHaveRemoteOffer {
				return next, nil
			}
		}
	case StateHaveLocalOffer:
		if op == OpSetRemote {
			switch sdpType {
			case SDPTypeAnswer:
				if next == StateStable {
					return next, nil
				}
			case SDPTypePranswer:
				if next == StateHaveRemotePranswer {
					return next, nil
				}
			}
		}
	case StateHaveRemotePranswer:
		if op == OpSetRemote && sdpType == SDPTypeAnswer && next == StateStable {
			return next, nil
		}
	case StateHaveRemoteOffer:
		if op == OpSetLocal {
			switch sdpType {
			case SDPTypeAnswer:
				if next == StateStable {
					return next, nil
				}
			case SDPTypePranswer:
				if next == StateHaveLocalPranswer {
					return next, nil
				}
			}
		}
	case StateHaveLocalPranswer:
		if op == OpSetLocal && sdpType == SDPTypeAnswer && next == StateStable {
			return next, nil
		}
	}

	return cur, &rtcerr.StateError{Err: fmt.Errorf("invalid signalling state transition %s->%s(%s)->%s", cur, op, sdpType, next)}
}
