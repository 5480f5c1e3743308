// Package transport exchanges vendor report frames with a device over a
// synchronous USB control channel, honoring the settle delays the firmware
// requires between transfers.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/openrazer/razerctl/internal/log"
	"github.com/openrazer/razerctl/protocol"
)

// HID class control requests used by the vendor protocol.
const (
	reqSetReport = 0x09 // HID SET_REPORT
	reqGetReport = 0x01 // HID GET_REPORT

	typeClassInterfaceOut = 0x21 // USB_TYPE_CLASS | USB_RECIP_INTERFACE | USB_DIR_OUT
	typeClassInterfaceIn  = 0xA1 // USB_TYPE_CLASS | USB_RECIP_INTERFACE | USB_DIR_IN

	// reportValue is the wValue (feature report, id 0) for the fixed-size
	// protocol. Legacy devices override it via SendLegacy.
	reportValue = 0x0300
)

// ErrShortRead marks a response transfer that returned fewer bytes than a
// full frame. Treated as a protocol violation, never retried here.
var ErrShortRead = errors.New("transport: response shorter than report length")

// ControlChannel is the minimal control-transfer surface the adapter needs.
// *gousb.Device satisfies it directly.
type ControlChannel interface {
	Control(requestType, request uint8, value, index uint16, data []byte) (int, error)
}

// Adapter performs blocking request/response exchanges. Callers must
// serialize access per device; a Send and the following read form one
// logical transaction.
type Adapter struct {
	logger *slog.Logger
	raw    log.RawLogger
}

// New returns an Adapter. raw may be nil to disable frame tracing.
func New(logger *slog.Logger, raw log.RawLogger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Adapter{logger: logger, raw: raw}
}

// Send seals the frame's checksum and issues a SET_REPORT transfer of
// exactly one frame to the given interface index, then blocks for the
// settle window. The settle wait and buffer release happen even when the
// transfer fails; the failure is logged and returned once, never retried.
func (a *Adapter) Send(ch ControlChannel, report *protocol.Report, reportIndex uint16, waitMin, waitMax time.Duration) error {
	report.Seal()
	buf := report.Encode()

	n, err := ch.Control(typeClassInterfaceOut, reqSetReport, reportValue, reportIndex, buf[:])
	settle(waitMin, waitMax)
	a.raw.Log(true, buf[:])

	if err != nil {
		a.logger.Warn("device data transfer failed", "index", reportIndex, "error", err)
		return fmt.Errorf("transport: set report transfer: %w", err)
	}
	if n != len(buf) {
		a.logger.Warn("device data transfer failed", "index", reportIndex, "wrote", n, "want", len(buf))
		return fmt.Errorf("transport: set report transfer wrote %d of %d bytes", n, len(buf))
	}
	return nil
}

// SendLegacy is Send for devices whose report value and frame size differ
// from the fixed defaults. The frame in data is transmitted as-is.
func (a *Adapter) SendLegacy(ch ControlChannel, data []byte, value, index uint16, waitMin, waitMax time.Duration) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	n, err := ch.Control(typeClassInterfaceOut, reqSetReport, value, index, buf)
	settle(waitMin, waitMax)
	a.raw.Log(true, buf)

	if err != nil {
		a.logger.Warn("device data transfer failed", "index", index, "error", err)
		return fmt.Errorf("transport: set report transfer: %w", err)
	}
	if n != len(buf) {
		a.logger.Warn("device data transfer failed", "index", index, "wrote", n, "want", len(buf))
		return fmt.Errorf("transport: set report transfer wrote %d of %d bytes", n, len(buf))
	}
	return nil
}

// RequestResponse sends the request frame, then retrieves the device's
// response with a GET_REPORT transfer on responseIndex.
//
// A failed send is logged and the read is attempted anyway; firing the
// command and then listening matches how the hardware behaves, and aborting
// the read would change observable device interaction. The returned frame's
// checksum is not validated here; that is the caller's responsibility.
func (a *Adapter) RequestResponse(ch ControlChannel, request *protocol.Report, reportIndex, responseIndex uint16, waitMin, waitMax time.Duration) (protocol.Report, error) {
	if err := a.Send(ch, request, reportIndex, waitMin, waitMax); err != nil {
		a.logger.Warn("request transfer failed, reading response anyway", "error", err)
	}

	buf := make([]byte, protocol.ReportLen)
	n, err := ch.Control(typeClassInterfaceIn, reqGetReport, reportValue, responseIndex, buf)
	if err != nil {
		a.logger.Warn("invalid USB response", "index", responseIndex, "error", err)
		return protocol.Report{}, fmt.Errorf("transport: get report transfer: %w", err)
	}
	a.raw.Log(false, buf[:n])
	if n != protocol.ReportLen {
		a.logger.Warn("invalid USB response", "index", responseIndex, "length", n)
		return protocol.Report{}, fmt.Errorf("%w: got %d bytes", ErrShortRead, n)
	}

	return protocol.DecodeReport(buf)
}

// settle blocks for a duration inside the [waitMin, waitMax] hardware
// settle window. The device is not ready for another transfer before
// waitMin elapses.
func settle(waitMin, waitMax time.Duration) {
	d := waitMin
	if waitMax > waitMin {
		d += time.Duration(rand.Int63n(int64(waitMax - waitMin)))
	}
	if d > 0 {
		time.Sleep(d)
	}
}
