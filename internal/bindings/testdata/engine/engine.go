// Command engine is a minimal engine library used by the bindings tests. It is
// built with -buildmode=c-shared and exports the entry points the bridge
// resolves.
//
// StartXrayTunnelWithFd returns 42 for config "{}" on fd 7 and -9 otherwise.
// StopXrayTunnel returns "stopped", or NULL for handle 99. FreeXrayTunnel
// returns "error:session not found", or release statistics for handle 1000.
// SubmitInboundPacket returns length*100 + protocol.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

const (
	nullHandle  = 99
	statsHandle = 1000
)

var (
	mu          sync.Mutex
	outstanding = map[unsafe.Pointer]bool{}
	frees       int
	badFrees    int
)

func issue(s string) *C.char {
	p := C.CString(s)
	mu.Lock()
	outstanding[unsafe.Pointer(p)] = true
	mu.Unlock()
	return p
}

//export StartXrayTunnelWithFd
func StartXrayTunnelWithFd(config *C.char, fd C.int32_t) C.longlong {
	if C.GoString(config) == "{}" && fd == 7 {
		return 42
	}
	return -9
}

//export StopXrayTunnel
func StopXrayTunnel(handle C.longlong) *C.char {
	if handle == nullHandle {
		return nil
	}
	return issue("stopped")
}

//export FreeXrayTunnel
func FreeXrayTunnel(handle C.longlong) *C.char {
	if handle == statsHandle {
		mu.Lock()
		stats := fmt.Sprintf("frees=%d bad=%d outstanding=%d", frees, badFrees, len(outstanding))
		mu.Unlock()
		return issue(stats)
	}
	return issue("error:session not found")
}

//export FreeCString
func FreeCString(s *C.char) {
	p := unsafe.Pointer(s)
	mu.Lock()
	if outstanding[p] {
		delete(outstanding, p)
		frees++
	} else {
		badFrees++
	}
	mu.Unlock()
	if p != nil {
		C.free(p)
	}
}

//export SubmitInboundPacket
func SubmitInboundPacket(handle C.longlong, data *C.uint8_t, length C.int32_t, protocol C.int32_t) C.int32_t {
	if data == nil {
		return -2
	}
	return length*100 + protocol
}

func main() {}
