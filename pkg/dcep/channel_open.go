package dcep

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ChannelType identifies the reliability mode requested by a ChannelOpen.
// This client only ever sends ChannelTypeReliable (ordered, reliable
// stream semantics are all the SCTP association is configured for), but
// the full RFC 8832 set is kept so an incoming open from a future
// peer-initiated channel parses correctly.
type ChannelType byte

// DCEP channel types (RFC 8832 §8.2.1).
const (
	ChannelTypeReliable                       ChannelType = 0x00
	ChannelTypeReliableUnordered              ChannelType = 0x80
	ChannelTypePartialReliableRexmit          ChannelType = 0x01
	ChannelTypePartialReliableRexmitUnordered ChannelType = 0x81
	ChannelTypePartialReliableTimed           ChannelType = 0x02
	ChannelTypePartialReliableTimedUnordered  ChannelType = 0x82
)

// channelOpenHeaderLength is the fixed portion of a DATA_CHANNEL_OPEN
// message, before the variable-length label and protocol strings.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|  Message Type |  Channel Type |            Priority           |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                    Reliability Parameter                      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|         Label Length          |       Protocol Length         |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                             Label                             |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                            Protocol                           |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
const channelOpenHeaderLength = 12

// maxLabelOrProtocolLength is the largest label/protocol RFC 8832's 16-bit
// length fields can express.
const maxLabelOrProtocolLength = 65535

// ChannelOpen represents a DATA_CHANNEL_OPEN message.
type ChannelOpen struct {
	ChannelType          ChannelType
	Priority             uint16
	ReliabilityParameter uint32

	Label    []byte
	Protocol []byte
}

// Marshal returns the raw bytes for the given message.
func (c *ChannelOpen) Marshal() ([]byte, error) {
	if len(c.Label) > maxLabelOrProtocolLength || len(c.Protocol) > maxLabelOrProtocolLength {
		return nil, errors.Errorf("label/protocol exceeds %d bytes", maxLabelOrProtocolLength)
	}

	raw := make([]byte, channelOpenHeaderLength+len(c.Label)+len(c.Protocol))

	raw[0] = byte(DataChannelOpen)
	raw[1] = byte(c.ChannelType)
	binary.BigEndian.PutUint16(raw[2:], c.Priority)
	binary.BigEndian.PutUint32(raw[4:], c.ReliabilityParameter)
	binary.BigEndian.PutUint16(raw[8:], uint16(len(c.Label)))
	binary.BigEndian.PutUint16(raw[10:], uint16(len(c.Protocol)))
	copy(raw[channelOpenHeaderLength:], c.Label)
	copy(raw[channelOpenHeaderLength+len(c.Label):], c.Protocol)

	return raw, nil
}

// Unmarshal populates the struct with the given raw data
func (c *ChannelOpen) Unmarshal(raw []byte) error {
	if len(raw) < channelOpenHeaderLength {
		return errors.Errorf("length of input is not long enough to satisfy header %d", len(raw))
	}
	c.ChannelType = ChannelType(raw[1])
	c.Priority = binary.BigEndian.Uint16(raw[2:])
	c.ReliabilityParameter = binary.BigEndian.Uint32(raw[4:])

	labelLength := binary.BigEndian.Uint16(raw[8:])
	protocolLength := binary.BigEndian.Uint16(raw[10:])

	if len(raw) != channelOpenHeaderLength+int(labelLength)+int(protocolLength) {
		return errors.Errorf("label + protocol length don't match full packet length")
	}

	c.Label = raw[channelOpenHeaderLength : channelOpenHeaderLength+labelLength]
	c.Protocol = raw[channelOpenHeaderLength+labelLength : channelOpenHeaderLength+labelLength+protocolLength]
	return nil
}
