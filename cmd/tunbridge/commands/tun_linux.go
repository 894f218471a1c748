//go:build linux

package commands

import (
	"fmt"

	"github.com/songgao/water"
)

type tunDevice struct {
	ifce *water.Interface
	fd   int32
}

func openTUN(name string) (device, error) {
	ifce, err := water.New(water.Config{
		DeviceType: water.TUN,
		PlatformSpecificParams: water.PlatformSpecificParams{
			Name: name,
		},
	})
	if err != nil {
		return nil, err
	}

	f, ok := ifce.ReadWriteCloser.(interface{ Fd() uintptr })
	if !ok {
		_ = ifce.Close()
		return nil, fmt.Errorf("device %s exposes no descriptor", ifce.Name())
	}
	return &tunDevice{ifce: ifce, fd: int32(f.Fd())}, nil
}

func (d *tunDevice) Name() string { return d.ifce.Name() }
func (d *tunDevice) FD() int32    { return d.fd }
func (d *tunDevice) Close() error { return d.ifce.Close() }
