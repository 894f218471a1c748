package tunbridge

import "strconv"

// Handle identifies one tunnel instance owned by the engine. Values <= 0 are
// never valid. A handle must not be reused after a successful FreeTunnel.
type Handle int64

// InvalidHandle is returned by StartTunnel on any failure.
const InvalidHandle Handle = -1

// Valid reports whether h can refer to a tunnel.
func (h Handle) Valid() bool { return h > 0 }

func (h Handle) String() string { return strconv.FormatInt(int64(h), 10) }
