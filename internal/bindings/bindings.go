//go:build cgo && !windows

package bindings

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>

typedef long long (*tb_start_tunnel_with_fd_fn)(const char*, int32_t);
typedef char* (*tb_tunnel_text_fn)(long long);
typedef void (*tb_free_cstring_fn)(char*);
typedef int32_t (*tb_submit_inbound_fn)(long long, const uint8_t*, int32_t, int32_t);

// dlerror state is per thread, so the message is captured in the same C call
// that failed.
static void tb_capture_dlerror(char* err, size_t errlen) {
	const char* msg = dlerror();
	if (err != NULL && errlen > 0) {
		snprintf(err, errlen, "%s", msg != NULL ? msg : "unknown dl error");
	}
}

static void* tb_open(const char* name, char* err, size_t errlen) {
	void* h = dlopen(name, RTLD_NOW);
	if (h == NULL) {
		tb_capture_dlerror(err, errlen);
	}
	return h;
}

static void* tb_sym(void* h, const char* name, char* err, size_t errlen) {
	dlerror();
	void* p = dlsym(h, name);
	if (p == NULL) {
		tb_capture_dlerror(err, errlen);
	}
	return p;
}

static long long tb_start_tunnel_with_fd(void* fn, const char* config, int32_t fd) {
	return ((tb_start_tunnel_with_fd_fn)fn)(config, fd);
}

static char* tb_tunnel_text(void* fn, long long handle) {
	return ((tb_tunnel_text_fn)fn)(handle);
}

static void tb_free_cstring(void* fn, char* s) {
	((tb_free_cstring_fn)fn)(s);
}

static int32_t tb_submit_inbound(void* fn, long long handle, const uint8_t* data, int32_t length, int32_t protocol) {
	return ((tb_submit_inbound_fn)fn)(handle, data, length, protocol);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

const dlErrLen = 256

// Library holds the resolved entry points of a loaded engine. The dlopen
// handle is never closed: resolved addresses stay valid for the process
// lifetime.
type Library struct {
	name   string
	handle unsafe.Pointer

	start       unsafe.Pointer
	stop        unsafe.Pointer
	free        unsafe.Pointer
	freeCString unsafe.Pointer
	submit      unsafe.Pointer
}

// Open loads the engine library and resolves its required entry points.
// SubmitInboundPacket is optional; see HasSubmit.
func Open(cfg Config) (*Library, error) {
	name := cfg.libraryName()

	var errBuf [dlErrLen]C.char
	var cName *C.char
	if !cfg.SearchProcess {
		cName = C.CString(name)
		defer C.free(unsafe.Pointer(cName))
	}

	h := C.tb_open(cName, &errBuf[0], C.size_t(len(errBuf)))
	if h == nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrLibraryNotFound, name, C.GoString(&errBuf[0]))
	}

	lib := &Library{name: name, handle: h}
	required := []struct {
		symbol string
		dst    *unsafe.Pointer
	}{
		{SymStartTunnelWithFd, &lib.start},
		{SymStopTunnel, &lib.stop},
		{SymFreeTunnel, &lib.free},
		{SymFreeCString, &lib.freeCString},
	}
	for _, r := range required {
		p, detail := lookup(h, r.symbol)
		if p == nil {
			return nil, &SymbolError{Library: name, Symbol: r.symbol, Detail: detail}
		}
		*r.dst = p
	}
	lib.submit, _ = lookup(h, SymSubmitInboundPacket)

	return lib, nil
}

func lookup(h unsafe.Pointer, symbol string) (unsafe.Pointer, string) {
	cSym := C.CString(symbol)
	defer C.free(unsafe.Pointer(cSym))

	var errBuf [dlErrLen]C.char
	p := C.tb_sym(h, cSym, &errBuf[0], C.size_t(len(errBuf)))
	if p == nil {
		return nil, C.GoString(&errBuf[0])
	}
	return p, ""
}

// Name returns the library the entry points were resolved from.
func (l *Library) Name() string { return l.name }

// HasSubmit reports whether the engine exports SubmitInboundPacket.
func (l *Library) HasSubmit() bool { return l.submit != nil }

// StartTunnelWithFd passes a NUL-terminated copy of config to the engine. The
// copy is cleared and freed when the call returns; the engine must not retain
// it. Engine configurations carry outbound credentials.
func (l *Library) StartTunnelWithFd(config string, fd int32) int64 {
	cConfig := C.CString(config)
	defer func() {
		zeroize(unsafe.Slice((*byte)(unsafe.Pointer(cConfig)), len(config)))
		C.free(unsafe.Pointer(cConfig))
	}()

	return int64(C.tb_start_tunnel_with_fd(l.start, cConfig, C.int32_t(fd)))
}

// StopTunnel returns engine-owned text, or nil. Release it with FreeCString.
func (l *Library) StopTunnel(handle int64) unsafe.Pointer {
	return unsafe.Pointer(C.tb_tunnel_text(l.stop, C.longlong(handle)))
}

// FreeTunnel returns engine-owned text, or nil. Release it with FreeCString.
func (l *Library) FreeTunnel(handle int64) unsafe.Pointer {
	return unsafe.Pointer(C.tb_tunnel_text(l.free, C.longlong(handle)))
}

// FreeCString hands text previously returned by the engine back to it.
func (l *Library) FreeCString(p unsafe.Pointer) {
	if p == nil {
		return
	}
	C.tb_free_cstring(l.freeCString, (*C.char)(p))
}

// SubmitInboundPacket lends data to the engine for the duration of the call.
// It returns -1 without calling the engine when the entry point is missing.
func (l *Library) SubmitInboundPacket(handle int64, data []byte, protocol int32) int32 {
	if l.submit == nil {
		return -1
	}
	rc := C.tb_submit_inbound(l.submit, C.longlong(handle), bytesPtr(data), C.int32_t(len(data)), C.int32_t(protocol))
	runtime.KeepAlive(data)
	return int32(rc)
}
