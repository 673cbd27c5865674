// Package sdpoffer builds the minimal SDP offer this client sends (one
// application media section for a single data channel, no audio/video)
// and extracts the ICE/DTLS parameters this client needs back out of the
// server's SDP answer.
package sdpoffer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// Params are the locally generated ICE/DTLS parameters carried in the
// offer.
type Params struct {
	Ufrag       string
	Pwd         string
	Fingerprint string // "sha-256 <hex-colon>"
}

// offerTemplate is the minimum SDP shape this client sends: one bundled
// application media section, actpass setup (the client always offers
// actpass and plays the DTLS client role regardless of the server's
// answer, matching this client's DTLS client wrapper).
const offerTemplate = "v=0\r\n" +
	"o=- 0 0 IN IP4 0.0.0.0\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"a=group:BUNDLE 0\r\n" +
	"m=application 9 UDP/DTLS/SCTP webrtc-datachannel\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=ice-ufrag:%s\r\n" +
	"a=ice-pwd:%s\r\n" +
	"a=fingerprint:%s\r\n" +
	"a=setup:actpass\r\n" +
	"a=mid:0\r\n" +
	"a=sendrecv\r\n" +
	"a=sctp-port:5000\r\n"

// BuildOffer renders the SDP offer body for the given locally generated
// parameters.
func BuildOffer(p Params) string {
	return fmt.Sprintf(offerTemplate, p.Ufrag, p.Pwd, p.Fingerprint)
}

var (
	ufragPattern       = regexp.MustCompile(`a=ice-ufrag:(\S+)`)
	pwdPattern         = regexp.MustCompile(`a=ice-pwd:(\S+)`)
	fingerprintPattern = regexp.MustCompile(`a=fingerprint:(\S+ \S+)`)
)

// ParseAnswer extracts the remote ICE ufrag/pwd and DTLS fingerprint out
// of the server's SDP answer. A field missing from the answer is an
// SdpError, per the spec's error-kind taxonomy.
func ParseAnswer(sdp string) (Params, error) {
	ufrag := ufragPattern.FindStringSubmatch(sdp)
	if ufrag == nil {
		return Params{}, &rtcerr.SdpError{Err: fmt.Errorf("sdpoffer: answer missing a=ice-ufrag")}
	}
	pwd := pwdPattern.FindStringSubmatch(sdp)
	if pwd == nil {
		return Params{}, &rtcerr.SdpError{Err: fmt.Errorf("sdpoffer: answer missing a=ice-pwd")}
	}
	fingerprint := fingerprintPattern.FindStringSubmatch(sdp)
	if fingerprint == nil {
		return Params{}, &rtcerr.SdpError{Err: fmt.Errorf("sdpoffer: answer missing a=fingerprint")}
	}

	return Params{
		Ufrag:       strings.TrimSpace(ufrag[1]),
		Pwd:         strings.TrimSpace(pwd[1]),
		Fingerprint: strings.TrimSpace(fingerprint[1]),
	}, nil
}
