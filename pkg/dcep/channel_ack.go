package dcep

// ChannelAck represents a DATA_CHANNEL_ACK message.
type ChannelAck struct{}

// Marshal returns the raw bytes for the given message. Peers have been
// observed sending this padded to a 4-byte boundary, so this client does
// the same on the wire even though only the leading type byte carries
// meaning.
func (c *ChannelAck) Marshal() ([]byte, error) {
	return []byte{byte(DataChannelAck), 0x00, 0x00, 0x00}, nil
}

// Unmarshal populates the struct with the given raw data, which is a no-op
// since ChannelAck carries no fields beyond its message type (already
// consumed by Parse's dispatch).
func (c *ChannelAck) Unmarshal([]byte) error {
	return nil
}
