// Package sctpclient opens the SCTP association that rides on top of the
// DTLS record layer. All of the association state machine (INIT/COOKIE,
// T1/T2/T3 timers, SACK generation, payload and reassembly queues) is
// github.com/pion/sctp's, not this package's: this package is a thin
// wrapper that drives the client handshake and opens the one stream the
// data channel needs.
package sctpclient

import (
	"fmt"
	"net"

	"github.com/pion/logging"
	"github.com/pion/sctp"
	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// dataChannelStreamID is the one SCTP stream this client ever opens: its
// single data channel, negotiated as stream 0 on the client's side of an
// SO (simultaneous-open) association.
const dataChannelStreamID = 0

// Config collects the arguments to Dial.
type Config struct {
	LoggerFactory logging.LoggerFactory
}

// Association wraps an *sctp.Association together with the one stream
// this client opens on it.
type Association struct {
	assoc  *sctp.Association
	Stream *sctp.Stream
}

// Dial performs the SCTP client handshake over conn (the DTLS record
// connection) and opens the data channel's stream.
func Dial(conn net.Conn, cfg Config) (*Association, error) {
	assoc, err := sctp.Client(sctp.Config{
		NetConn:       conn,
		LoggerFactory: cfg.LoggerFactory,
	})
	if err != nil {
		return nil, &rtcerr.ProtocolError{Err: fmt.Errorf("sctpclient: association handshake failed: %w", err)}
	}

	stream, err := assoc.OpenStream(dataChannelStreamID, sctp.PayloadTypeWebRTCBinary)
	if err != nil {
		_ = assoc.Close()
		return nil, &rtcerr.ProtocolError{Err: fmt.Errorf("sctpclient: opening stream: %w", err)}
	}

	// The data channel negotiates its own framing (DCEP) inline on this
	// stream; unordered delivery is never requested, so leave the stream
	// in its default ordered mode.

	return &Association{assoc: assoc, Stream: stream}, nil
}

// Close tears down the stream and the association beneath it.
func (a *Association) Close() error {
	if a.Stream != nil {
		_ = a.Stream.Close()
	}
	return a.assoc.Close()
}
