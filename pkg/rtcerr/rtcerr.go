// Package rtcerr defines the typed error kinds this client's layers
// return (configuration, signalling, SDP, state, protocol, resource, and
// closed-connection errors), each wrapping the underlying cause so
// errors.Is/As still reach it.
package rtcerr

import "fmt"

// ConfigurationError indicates a bad URL, insufficient ICE ufrag/pwd
// entropy, or an empty certificate list.
type ConfigurationError struct{ Err error }

func (e *ConfigurationError) Error() string { return fmt.Sprintf("webrtcdc: configuration: %v", e.Err) }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// SignallingError indicates a signalling transport failure, malformed
// JSON, or a missing field in the server's response.
type SignallingError struct{ Err error }

func (e *SignallingError) Error() string { return fmt.Sprintf("webrtcdc: signalling: %v", e.Err) }
func (e *SignallingError) Unwrap() error { return e.Err }

// SdpError indicates a missing fingerprint, conflicting ufrag/pwd/
// fingerprint across media sections, or an SDP type invalid for the
// current signalling state.
type SdpError struct{ Err error }

func (e *SdpError) Error() string { return fmt.Sprintf("webrtcdc: sdp: %v", e.Err) }
func (e *SdpError) Unwrap() error { return e.Err }

// StateError indicates an operation invalid in the current signalling or
// transport state (restart while gathering, add-ice before remote
// description, and so on).
type StateError struct{ Err error }

func (e *StateError) Error() string { return fmt.Sprintf("webrtcdc: state: %v", e.Err) }
func (e *StateError) Unwrap() error { return e.Err }

// ProtocolError indicates a violation at the ICE/STUN/DTLS/SCTP/DCEP wire
// level: bad STUN integrity, a DTLS fatal alert, an SCTP checksum or cookie
// mismatch, an unknown SCTP chunk type, an invalid DCEP message type.
type ProtocolError struct{ Err error }

func (e *ProtocolError) Error() string { return fmt.Sprintf("webrtcdc: protocol: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// ResourceError indicates exhaustion of a local resource: address already
// in use, port exhaustion, buffer overflow.
type ResourceError struct{ Err error }

func (e *ResourceError) Error() string { return fmt.Sprintf("webrtcdc: resource: %v", e.Err) }
func (e *ResourceError) Unwrap() error { return e.Err }

// ClosedError indicates an operation attempted on an already-closed
// connection.
type ClosedError struct{ Err error }

func (e *ClosedError) Error() string { return fmt.Sprintf("webrtcdc: closed: %v", e.Err) }
func (e *ClosedError) Unwrap() error { return e.Err }
