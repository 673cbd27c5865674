// Package mux multiplexes packets arriving on the single UDP connection the
// ICE agent selects, routing each datagram to the first registered endpoint
// whose MatchFunc accepts it (RFC 7983). This client registers exactly one
// endpoint, for DTLS; everything above DTLS (SCTP, the data channel) is
// carried inside the encrypted record stream and never touches the mux
// directly.
package mux

import (
	"net"
	"sync"

	"github.com/pion/logging"
	"github.com/pion/transport/v3/packetio"
)

// The maximum amount of data that can be buffered per endpoint. A packet
// that arrives while the buffer is full is rejected by the buffer and
// dropped (readLoop logs the failure at Warn); packets already buffered
// are kept.
const maxBufferSize = 1000 * 1000 // 1MB

// maxPendingPackets bounds the number of packets held for endpoints that
// have not registered yet. When the bound is reached, the oldest pending
// packet is dropped to make room for the new one.
const maxPendingPackets = 4

// Config collects the arguments to mux.Mux construction into a single
// structure.
type Config struct {
	Conn          net.Conn
	BufferSize    int
	LoggerFactory logging.LoggerFactory
}

// Mux demultiplexes datagrams read from one net.Conn to many Endpoints.
type Mux struct {
	lock       sync.Mutex
	nextConn   net.Conn
	endpoints  map[*Endpoint]MatchFunc
	bufferSize int
	closedCh   chan struct{}

	// pendingPackets holds packets that arrived before any endpoint's
	// MatchFunc accepted them, in case the matching endpoint registers
	// shortly after (construction order between the ICE conn becoming
	// live and the DTLS endpoint being registered is not guaranteed).
	pendingPackets [][]byte

	log logging.LeveledLogger
}

// NewMux creates a new Mux reading from config.Conn until Close.
func NewMux(config Config) *Mux {
	m := &Mux{
		nextConn:   config.Conn,
		endpoints:  make(map[*Endpoint]MatchFunc),
		bufferSize: config.BufferSize,
		closedCh:   make(chan struct{}),
		log:        config.LoggerFactory.NewLogger("mux"),
	}

	go m.readLoop()

	return m
}

// NewEndpoint creates a new Endpoint whose MatchFunc is f. Any packets
// already buffered in pendingPackets that match f are delivered immediately.
func (m *Mux) NewEndpoint(f MatchFunc) *Endpoint {
	e := &Endpoint{
		mux:    m,
		buffer: packetio.NewBuffer(),
	}
	e.buffer.SetLimitSize(maxBufferSize)

	m.lock.Lock()
	m.endpoints[e] = f

	remaining := m.pendingPackets[:0]
	for _, buf := range m.pendingPackets {
		if f(buf) {
			if _, err := e.buffer.Write(buf); err != nil {
				m.log.Warnf("mux: failed to deliver buffered packet: %v", err)
			}
			continue
		}
		remaining = append(remaining, buf)
	}
	m.pendingPackets = remaining
	m.lock.Unlock()

	return e
}

// RemoveEndpoint removes an endpoint from the Mux.
func (m *Mux) RemoveEndpoint(e *Endpoint) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.endpoints, e)
}

// Close closes the Mux and all associated Endpoints. Close is idempotent.
func (m *Mux) Close() error {
	m.lock.Lock()
	for e := range m.endpoints {
		if err := e.close(); err != nil {
			m.lock.Unlock()
			return err
		}
		delete(m.endpoints, e)
	}
	m.lock.Unlock()

	err := m.nextConn.Close()

	// Wait for readLoop to end, unless it already has.
	<-m.closedCh

	return err
}

func (m *Mux) readLoop() {
	defer close(m.closedCh)

	buf := make([]byte, m.bufferSize)
	for {
		n, err := m.nextConn.Read(buf)
		if err != nil {
			return
		}

		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		if err := m.dispatch(pkt); err != nil {
			m.log.Warnf("mux: dispatch failed: %v", err)
		}
	}
}

func (m *Mux) dispatch(buf []byte) error {
	var endpoint *Endpoint

	m.lock.Lock()
	for e, f := range m.endpoints {
		if f(buf) {
			endpoint = e
			break
		}
	}

	if endpoint == nil {
		if len(buf) == 0 {
			m.lock.Unlock()
			return nil
		}
		if len(m.pendingPackets) >= maxPendingPackets {
			m.pendingPackets = m.pendingPackets[1:]
		}
		m.pendingPackets = append(m.pendingPackets, buf)
		m.lock.Unlock()
		m.log.Warnf("mux: no endpoint yet for packet starting with %d, buffering", buf[0])
		return nil
	}
	m.lock.Unlock()

	_, err := endpoint.buffer.Write(buf)
	return err
}
