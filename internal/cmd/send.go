package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/openrazer/razerctl/internal/log"
	"github.com/openrazer/razerctl/protocol"
	"github.com/openrazer/razerctl/transport"
)

// Send builds a vendor report and exchanges it with a device over USB.
type Send struct {
	Class string `arg:"" help:"Command class in hex"`
	Cmd   string `arg:"" help:"Command id in hex"`
	Data  string `arg:"" optional:"" help:"Argument bytes as hex, e.g. 01050300"`

	VID string `help:"USB vendor id in hex" default:"1532" env:"RAZERCTL_VID"`
	PID string `help:"USB product id in hex" required:"" env:"RAZERCTL_PID"`

	ReportIndex   uint16 `help:"Interface index for the request transfer" default:"2" env:"RAZERCTL_REPORT_INDEX"`
	ResponseIndex uint16 `help:"Interface index for the response transfer" default:"2" env:"RAZERCTL_RESPONSE_INDEX"`
	NoResponse    bool   `help:"Fire the command without reading a response"`

	WaitMin time.Duration `help:"Minimum settle wait after a transfer" default:"600us"`
	WaitMax time.Duration `help:"Maximum settle wait after a transfer" default:"800us"`
}

// Run is called by Kong when the send command is executed.
func (s *Send) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	vid, err := parseHex16(s.VID)
	if err != nil {
		return fmt.Errorf("invalid vendor id %q: %w", s.VID, err)
	}
	pid, err := parseHex16(s.PID)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", s.PID, err)
	}
	class, err := parseHex8(s.Class)
	if err != nil {
		return fmt.Errorf("invalid command class %q: %w", s.Class, err)
	}
	command, err := parseHex8(s.Cmd)
	if err != nil {
		return fmt.Errorf("invalid command id %q: %w", s.Cmd, err)
	}
	data, err := hex.DecodeString(s.Data)
	if err != nil {
		return fmt.Errorf("invalid argument bytes %q: %w", s.Data, err)
	}
	if len(data) > protocol.ArgumentsLen {
		return fmt.Errorf("argument payload is %d bytes, maximum is %d", len(data), protocol.ArgumentsLen)
	}

	report := protocol.NewReport(class, command, uint8(len(data)))
	copy(report.Arguments[:], data)

	dev, err := transport.Open(vid, pid)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	adapter := transport.New(logger, rawLogger)

	if s.NoResponse {
		return adapter.Send(dev, &report, s.ReportIndex, s.WaitMin, s.WaitMax)
	}

	resp, err := adapter.RequestResponse(dev, &report, s.ReportIndex, s.ResponseIndex, s.WaitMin, s.WaitMax)
	if err != nil {
		return err
	}
	if resp.Checksum() != resp.CRC {
		logger.Warn("response checksum mismatch", "want", resp.Checksum(), "got", resp.CRC)
	}
	if resp.Status != protocol.StatusSuccess {
		logger.Warn("device did not report success", "status", resp.Status)
	}
	fmt.Println(resp.String())
	return nil
}

func parseHex16(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	return uint16(v), err
}

func parseHex8(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	return uint8(v), err
}
