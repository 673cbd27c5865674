// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package mux

import (
	"net"
	"testing"
	"time"

	"github.com/pion/logging"
	"github.com/stretchr/testify/require"
)

const testPipeBufferSize = 8192

func TestNoEndpoints(t *testing.T) {
	ca, cb := net.Pipe()
	require.NoError(t, cb.Close())

	m := NewMux(Config{
		Conn:          ca,
		BufferSize:    testPipeBufferSize,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})
	require.NoError(t, m.dispatch(make([]byte, 1)))
	require.NoError(t, m.Close())
}

func TestDTLSMatchDelivers(t *testing.T) {
	ca, cb := net.Pipe()
	defer func() { _ = cb.Close() }()

	m := NewMux(Config{
		Conn:          ca,
		BufferSize:    testPipeBufferSize,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})
	defer func() { _ = m.Close() }()

	dtlsEndpoint := m.NewEndpoint(MatchDTLS)

	go func() {
		_, _ = cb.Write([]byte{20, 1, 2, 3})
	}()

	out := make([]byte, testPipeBufferSize)
	n, err := dtlsEndpoint.Read(out)
	require.NoError(t, err)
	require.Equal(t, []byte{20, 1, 2, 3}, out[:n])
}

func TestNonMatchingPacketIsBuffered(t *testing.T) {
	ca, cb := net.Pipe()
	defer func() { _ = cb.Close() }()

	m := NewMux(Config{
		Conn:          ca,
		BufferSize:    testPipeBufferSize,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})
	defer func() { _ = m.Close() }()

	// A DTLS packet arrives before anyone has registered an endpoint for it.
	go func() {
		_, _ = cb.Write([]byte{21, 9, 9})
	}()
	time.Sleep(20 * time.Millisecond)

	dtlsEndpoint := m.NewEndpoint(MatchDTLS)

	out := make([]byte, testPipeBufferSize)
	n, err := dtlsEndpoint.Read(out)
	require.NoError(t, err)
	require.Equal(t, []byte{21, 9, 9}, out[:n])
}

func TestOverflowDropsOldestPending(t *testing.T) {
	m := &Mux{
		endpoints: make(map[*Endpoint]MatchFunc),
		log:       logging.NewDefaultLoggerFactory().NewLogger("mux"),
	}

	for i := 0; i <= maxPendingPackets+2; i++ {
		require.NoError(t, m.dispatch([]byte{20, byte(i)}))
	}
	require.Len(t, m.pendingPackets, maxPendingPackets)
	require.Equal(t, []byte{20, 3}, m.pendingPackets[0])
}

func TestEndpointCloseIsIdempotent(t *testing.T) {
	ca, cb := net.Pipe()
	defer func() { _ = cb.Close() }()

	m := NewMux(Config{
		Conn:          ca,
		BufferSize:    testPipeBufferSize,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})

	e := m.NewEndpoint(MatchDTLS)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
