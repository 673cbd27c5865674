package sdpoffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildOfferContainsParams(t *testing.T) {
	offer := BuildOffer(Params{Ufrag: "abcd", Pwd: "efgh", Fingerprint: "sha-256 AA:BB"})
	require.Contains(t, offer, "a=ice-ufrag:abcd")
	require.Contains(t, offer, "a=ice-pwd:efgh")
	require.Contains(t, offer, "a=fingerprint:sha-256 AA:BB")
	require.Contains(t, offer, "m=application 9 UDP/DTLS/SCTP webrtc-datachannel")
}

func TestParseAnswer(t *testing.T) {
	answer := "v=0\r\no=- 0 0 IN IP4 0.0.0.0\r\ns=-\r\nt=0 0\r\n" +
		"m=application 9 UDP/DTLS/SCTP webrtc-datachannel\r\n" +
		"a=ice-ufrag:remoteUfrag\r\na=ice-pwd:remotePwd\r\n" +
		"a=fingerprint:sha-256 11:22:33\r\na=setup:active\r\n"

	p, err := ParseAnswer(answer)
	require.NoError(t, err)
	require.Equal(t, "remoteUfrag", p.Ufrag)
	require.Equal(t, "remotePwd", p.Pwd)
	require.Equal(t, "sha-256 11:22:33", p.Fingerprint)
}

func TestParseAnswerMissingFingerprint(t *testing.T) {
	answer := "v=0\r\na=ice-ufrag:u\r\na=ice-pwd:p\r\n"
	_, err := ParseAnswer(answer)
	require.Error(t, err)
}
