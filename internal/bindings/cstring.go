//go:build cgo && !windows

package bindings

/*
#include <stdint.h>
*/
import "C"

import "unsafe"

// CopyCString copies a NUL-terminated engine buffer into Go memory. It does
// not release the buffer.
func CopyCString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return C.GoString((*C.char)(p))
}

// bytesPtr points directly at Go memory. The pointer is only valid for the
// duration of the cgo call it is passed to.
func bytesPtr(data []byte) *C.uint8_t {
	if len(data) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&data[0]))
}
