package addrcell

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellStartsFinding(t *testing.T) {
	c := New()
	require.False(t, c.Get().IsFound())
}

func TestReceiveCandidateResolves(t *testing.T) {
	c := New()
	err := c.ReceiveCandidate("candidate:1 1 udp 2130706431 10.0.0.5 54321 typ host generation 0")
	require.NoError(t, err)

	addr := c.Get()
	require.True(t, addr.IsFound())
	require.Equal(t, net.UDPAddr{IP: net.ParseIP("10.0.0.5").To4(), Port: 54321}, addr.Addr())
}

func TestReceiveCandidateIgnoredOnceFound(t *testing.T) {
	c := New()
	require.NoError(t, c.ReceiveCandidate("candidate:1 1 udp 2130706431 10.0.0.5 54321 typ host"))
	require.NoError(t, c.ReceiveCandidate("candidate:2 1 udp 1694498815 203.0.113.9 9999 typ srflx raddr 10.0.0.5 rport 54321"))

	require.Equal(t, uint16(54321), uint16(c.Get().Addr().Port))
}

func TestReceiveCandidateMalformed(t *testing.T) {
	c := New()
	err := c.ReceiveCandidate("not a candidate string")
	require.Error(t, err)
	require.False(t, c.Get().IsFound())
}
