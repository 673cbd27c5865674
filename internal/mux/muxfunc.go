package mux

// MatchFunc allows custom logic for mapping packets to an Endpoint
type MatchFunc func([]byte) bool

// MatchRange is a MatchFunc that accepts packets with the first byte in [lower..upper]
func MatchRange(lower, upper byte) MatchFunc {
	return func(buf []byte) bool {
		if len(buf) < 1 {
			return false
		}
		b := buf[0]
		return b >= lower && b <= upper
	}
}

// MatchFuncs as described in RFC7983. Only the two ranges this client
// actually demultiplexes are kept: STUN (connectivity checks, handled by
// the ICE agent before the mux is constructed) and DTLS (everything
// above it: the SCTP association and the data channel).
//
//	            +----------------+
//	            |        [0..3] -+--> forward to STUN
//	            |                |
//	packet -->  |      [20..63] -+--> forward to DTLS
//	            |                |
//	            +----------------+

// MatchSTUN is a MatchFunc that accepts packets with the first byte in [0..3]
// as defined in RFC7983
var MatchSTUN = MatchRange(0, 3)

// MatchDTLS is a MatchFunc that accepts packets with the first byte in [20..63]
// as defined in RFC7983
var MatchDTLS = MatchRange(20, 63)
