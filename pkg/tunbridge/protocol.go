package tunbridge

import (
	"errors"
	"fmt"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// ProtocolTag tells the engine how a submitted payload is framed. The values
// follow the IP version of the packet.
type ProtocolTag int32

const (
	ProtocolIPv4 ProtocolTag = ipv4.Version
	ProtocolIPv6 ProtocolTag = ipv6.Version
)

func (p ProtocolTag) String() string {
	switch p {
	case ProtocolIPv4:
		return "ipv4"
	case ProtocolIPv6:
		return "ipv6"
	}
	return fmt.Sprintf("protocol(%d)", int32(p))
}

var errEmptyPacket = errors.New("tunbridge: empty packet")

// DetectProtocol returns the tag for a raw IP packet read from a TUN device.
func DetectProtocol(pkt []byte) (ProtocolTag, error) {
	if len(pkt) == 0 {
		return 0, errEmptyPacket
	}
	switch int(pkt[0] >> 4) {
	case ipv4.Version:
		if _, err := ipv4.ParseHeader(pkt); err != nil {
			return 0, fmt.Errorf("parse ipv4 header: %w", err)
		}
		return ProtocolIPv4, nil
	case ipv6.Version:
		if _, err := ipv6.ParseHeader(pkt); err != nil {
			return 0, fmt.Errorf("parse ipv6 header: %w", err)
		}
		return ProtocolIPv6, nil
	}
	return 0, fmt.Errorf("tunbridge: unknown ip version %d", pkt[0]>>4)
}
