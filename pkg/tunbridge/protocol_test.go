package tunbridge_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"

	"github.com/xstream/tunbridge/pkg/tunbridge"
)

func ipv4Packet(t *testing.T) []byte {
	t.Helper()
	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipv4.HeaderLen,
		TotalLen: ipv4.HeaderLen,
		TTL:      64,
		Protocol: 17,
		Src:      net.IPv4(10, 0, 0, 2),
		Dst:      net.IPv4(1, 1, 1, 1),
	}
	b, err := h.Marshal()
	require.NoError(t, err)
	return b
}

func ipv6Packet() []byte {
	b := make([]byte, 40)
	b[0] = 0x60
	b[6] = 17 // next header: udp
	b[7] = 64 // hop limit
	copy(b[8:24], net.ParseIP("fd00::2").To16())
	copy(b[24:40], net.ParseIP("2606:4700::1111").To16())
	return b
}

func TestDetectProtocol(t *testing.T) {
	tests := map[string]struct {
		pkt     []byte
		want    tunbridge.ProtocolTag
		wantErr bool
	}{
		"ipv4":        {pkt: ipv4Packet(t), want: tunbridge.ProtocolIPv4},
		"ipv6":        {pkt: ipv6Packet(), want: tunbridge.ProtocolIPv6},
		"empty":       {pkt: nil, wantErr: true},
		"short ipv4":  {pkt: []byte{0x45, 0x00}, wantErr: true},
		"short ipv6":  {pkt: []byte{0x60, 0x00, 0x00}, wantErr: true},
		"bad version": {pkt: []byte{0x20, 0x00, 0x00, 0x00}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tunbridge.DetectProtocol(tc.pkt)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProtocolTagString(t *testing.T) {
	assert.Equal(t, "ipv4", tunbridge.ProtocolIPv4.String())
	assert.Equal(t, "ipv6", tunbridge.ProtocolIPv6.String())
	assert.Equal(t, "protocol(9)", tunbridge.ProtocolTag(9).String())
	assert.Equal(t, int32(4), int32(tunbridge.ProtocolIPv4))
	assert.Equal(t, int32(6), int32(tunbridge.ProtocolIPv6))
}
