// Package dcep implements the DATA_CHANNEL_OPEN / DATA_CHANNEL_ACK framing
// from RFC 8832 and the SCTP payload-protocol identifiers RFC 8831 assigns
// to carry it alongside application data on the same stream.
package dcep

import "github.com/pkg/errors"

// Message is a parsed DataChannel establishment message.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// MessageType is the first byte in a DataChannel message that specifies type
type MessageType byte

// DataChannel Message Types
const (
	DataChannelAck  MessageType = 0x02
	DataChannelOpen MessageType = 0x03
)

// PPID is the SCTP payload-protocol identifier carried by every user
// message on the data channel's stream; it tells the receiver how to
// interpret the payload before any DCEP or application framing is
// consulted.
type PPID uint32

// PPIDs this client ever sends or expects (RFC 8831 §8).
const (
	PPIDDCEP        PPID = 50
	PPIDString      PPID = 51
	PPIDBinary      PPID = 53
	PPIDStringEmpty PPID = 56
	PPIDBinaryEmpty PPID = 57
)

// Parse accepts raw input and returns a DataChannel message
func Parse(raw []byte) (Message, error) {
	if len(raw) == 0 {
		return nil, errors.Errorf("DataChannel message is not long enough to determine type ")
	}

	var msg Message
	switch MessageType(raw[0]) {
	case DataChannelOpen:
		msg = &ChannelOpen{}
	case DataChannelAck:
		msg = &ChannelAck{}
	default:
		return nil, errors.Errorf("Unknown MessageType %v", MessageType(raw[0]))
	}

	if err := msg.Unmarshal(raw); err != nil {
		return nil, err
	}

	return msg, nil
}
