package transport

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
)

// Device wraps an open gousb handle as a ControlChannel.
type Device struct {
	ctx *gousb.Context
	dev *gousb.Device
}

// Open claims the first device matching vid/pid, detaching any kernel
// driver so control transfers reach the hardware.
func Open(vid, pid uint16) (*Device, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("transport: open device %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		_ = ctx.Close()
		return nil, errors.New("transport: device not found")
	}

	if err := dev.SetAutoDetach(true); err != nil {
		_ = dev.Close()
		_ = ctx.Close()
		return nil, fmt.Errorf("transport: set auto-detach: %w", err)
	}

	return &Device{ctx: ctx, dev: dev}, nil
}

// Control implements ControlChannel.
func (d *Device) Control(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	return d.dev.Control(requestType, request, value, index, data)
}

// Close releases the device handle and the USB context.
func (d *Device) Close() error {
	err := d.dev.Close()
	if cerr := d.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}
