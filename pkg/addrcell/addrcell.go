// Package addrcell tracks the server's observed socket address as ICE
// candidate strings arrive from the signalling channel, exposing it as a
// single-writer, many-reader cell: one goroutine feeds candidates in as
// they're gathered, while any number of readers can poll the current
// value without blocking.
package addrcell

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"sync/atomic"

	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// candidatePattern extracts the "<ipv4> <port>" pair out of an ICE
// candidate attribute string (e.g. "candidate:1 1 udp 2130706431 10.0.0.1
// 54321 typ host"). The connection-address/port fields are always
// adjacent in that order regardless of candidate type.
var candidatePattern = regexp.MustCompile(`\b(?P<ip>(?:[0-9]{1,3}\.){3}[0-9]{1,3}) (?P<port>[0-9]{1,5})\b`)

// ServerAddr is the server's socket address, if it has been found yet.
type ServerAddr struct {
	found bool
	addr  net.UDPAddr
}

// Finding is the zero ServerAddr: the client has not yet observed a
// candidate for the server.
var Finding = ServerAddr{}

// Found reports an address the client has resolved the server to.
func Found(addr net.UDPAddr) ServerAddr {
	return ServerAddr{found: true, addr: addr}
}

// IsFound reports whether the server's address has been resolved.
func (s ServerAddr) IsFound() bool {
	return s.found
}

// Addr returns the resolved address. It panics if IsFound is false;
// callers must check IsFound first.
func (s ServerAddr) Addr() net.UDPAddr {
	if !s.found {
		panic("addrcell: Addr called on a Finding ServerAddr")
	}
	return s.addr
}

// Cell is a single-writer, many-reader holder of the current ServerAddr.
// The zero value is ready to use and starts out Finding.
type Cell struct {
	val atomic.Value
}

// New returns a Cell initialized to Finding.
func New() *Cell {
	c := &Cell{}
	c.val.Store(Finding)
	return c
}

// Get returns the current ServerAddr without blocking.
func (c *Cell) Get() ServerAddr {
	v, ok := c.val.Load().(ServerAddr)
	if !ok {
		return Finding
	}
	return v
}

// ReceiveCandidate parses an ICE candidate attribute string and, if it
// names an address, stores it. Once the cell has transitioned to Found it
// stays there: later candidates (redundant srflx/relay reflections of a
// connection already established) are ignored rather than overwriting a
// resolved address with a stale or alternate one.
func (c *Cell) ReceiveCandidate(candidateStr string) error {
	if c.Get().IsFound() {
		return nil
	}

	addr, err := candidateToAddr(candidateStr)
	if err != nil {
		return err
	}

	c.val.Store(addr)
	return nil
}

func candidateToAddr(candidateStr string) (ServerAddr, error) {
	match := candidatePattern.FindStringSubmatch(candidateStr)
	if match == nil {
		return ServerAddr{}, &rtcerr.SdpError{Err: fmt.Errorf("no socket address found in candidate %q", candidateStr)}
	}

	ip := net.ParseIP(match[1]).To4()
	if ip == nil {
		return ServerAddr{}, &rtcerr.SdpError{Err: fmt.Errorf("invalid ipv4 address %q in candidate", match[1])}
	}

	port, err := strconv.Atoi(match[2])
	if err != nil || port < 0 || port > 65535 {
		return ServerAddr{}, &rtcerr.SdpError{Err: fmt.Errorf("invalid port %q in candidate", match[2])}
	}

	return Found(net.UDPAddr{IP: ip, Port: port}), nil
}
