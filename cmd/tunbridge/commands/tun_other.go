//go:build !linux

package commands

import "errors"

func openTUN(string) (device, error) {
	return nil, errors.New("creating TUN devices is only supported on linux, pass --fd")
}
