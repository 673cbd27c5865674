// Package datachannel implements the client side of RFC 8832's
// DATA_CHANNEL_OPEN/ACK handshake on top of an already-open SCTP stream,
// and the subsequent read/write of application messages on that stream.
package datachannel

import (
	"fmt"

	"github.com/pion/sctp"
	"github.com/unreliable-datagram/webrtcdc/internal/sctpclient"
	"github.com/unreliable-datagram/webrtcdc/pkg/dcep"
	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// receiveMTU is not referenced by the read path: ReadDataChannel reads
// into the caller's buffer, so a single read is bounded by len(p).
const receiveMTU = 8192

// Config describes the data channel this client asks the server to open.
type Config struct {
	ChannelType          dcep.ChannelType
	Priority             uint16
	ReliabilityParameter uint32
	Label                string
	Protocol             string
}

// DataChannel is a single, established RFC 8831 data channel.
type DataChannel struct {
	Config
	assoc  *sctpclient.Association
	stream *sctp.Stream
}

// Open sends DATA_CHANNEL_OPEN on assoc's stream and returns once the
// message has been written; the client does not block waiting for the
// server's ACK (RFC 8832 permits sending data before the ACK arrives).
func Open(assoc *sctpclient.Association, cfg Config) (*DataChannel, error) {
	msg := &dcep.ChannelOpen{
		ChannelType:          cfg.ChannelType,
		Priority:             cfg.Priority,
		ReliabilityParameter: cfg.ReliabilityParameter,
		Label:                []byte(cfg.Label),
		Protocol:             []byte(cfg.Protocol),
	}

	raw, err := msg.Marshal()
	if err != nil {
		return nil, &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: marshalling DATA_CHANNEL_OPEN: %w", err)}
	}

	if _, err := assoc.Stream.WriteSCTP(raw, sctp.PayloadTypeWebRTCDCEP); err != nil {
		return nil, &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: sending DATA_CHANNEL_OPEN: %w", err)}
	}

	return &DataChannel{Config: cfg, assoc: assoc, stream: assoc.Stream}, nil
}

// Read reads one binary application message. DCEP control messages
// arriving interleaved on the same stream are handled transparently and
// never surfaced to the caller.
func (dc *DataChannel) Read(p []byte) (int, error) {
	n, _, err := dc.ReadDataChannel(p)
	return n, err
}

// ReadDataChannel reads one application message, reporting whether it was
// sent as a string (PPID WebRTCString/StringEmpty) or binary message.
// Messages carrying an Empty PPID are reported as zero bytes.
func (dc *DataChannel) ReadDataChannel(p []byte) (int, bool, error) {
	for {
		n, ppi, err := dc.stream.ReadSCTP(p)
		if err != nil {
			return 0, false, &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: reading stream: %w", err)}
		}

		switch ppi {
		case sctp.PayloadTypeWebRTCDCEP:
			if handleErr := dc.handleDCEP(p[:n]); handleErr != nil {
				return 0, false, handleErr
			}
			continue
		case sctp.PayloadTypeWebRTCStringEmpty:
			return 0, true, nil
		case sctp.PayloadTypeWebRTCBinaryEmpty:
			return 0, false, nil
		case sctp.PayloadTypeWebRTCString:
			return n, true, nil
		default:
			return n, false, nil
		}
	}
}

// Write writes p as a binary application message.
func (dc *DataChannel) Write(p []byte) (int, error) {
	return dc.WriteDataChannel(p, false)
}

// WriteDataChannel writes p, choosing the Empty PPID variants per
// RFC 8831 §6.6 when p has zero length. SCTP cannot carry a zero-byte
// user message, so an empty p goes out as a single zero byte under the
// Empty PPID and the call reports 0 bytes written.
func (dc *DataChannel) WriteDataChannel(p []byte, isString bool) (int, error) {
	var ppi sctp.PayloadProtocolIdentifier
	switch {
	case !isString && len(p) > 0:
		ppi = sctp.PayloadTypeWebRTCBinary
	case !isString && len(p) == 0:
		ppi = sctp.PayloadTypeWebRTCBinaryEmpty
	case isString && len(p) > 0:
		ppi = sctp.PayloadTypeWebRTCString
	default:
		ppi = sctp.PayloadTypeWebRTCStringEmpty
	}

	if len(p) == 0 {
		if _, err := dc.stream.WriteSCTP([]byte{0}, ppi); err != nil {
			return 0, &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: writing stream: %w", err)}
		}
		return 0, nil
	}

	n, err := dc.stream.WriteSCTP(p, ppi)
	if err != nil {
		return n, &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: writing stream: %w", err)}
	}
	return n, nil
}

// StreamIdentifier returns the SCTP stream identifier backing this
// channel.
func (dc *DataChannel) StreamIdentifier() uint16 {
	return dc.stream.StreamIdentifier()
}

// Close closes the underlying SCTP stream.
func (dc *DataChannel) Close() error {
	return dc.stream.Close()
}

func (dc *DataChannel) handleDCEP(raw []byte) error {
	msg, err := dcep.Parse(raw)
	if err != nil {
		return &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: parsing DCEP message: %w", err)}
	}

	switch msg.(type) {
	case *dcep.ChannelOpen:
		ack := &dcep.ChannelAck{}
		raw, err := ack.Marshal()
		if err != nil {
			return &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: marshalling DATA_CHANNEL_ACK: %w", err)}
		}
		if _, err := dc.stream.WriteSCTP(raw, sctp.PayloadTypeWebRTCDCEP); err != nil {
			return &rtcerr.ProtocolError{Err: fmt.Errorf("datachannel: sending DATA_CHANNEL_ACK: %w", err)}
		}
	case *dcep.ChannelAck:
		// The server has acknowledged our DATA_CHANNEL_OPEN; nothing
		// further to do, the channel was already usable.
	}

	return nil
}
