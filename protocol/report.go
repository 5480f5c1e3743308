// Package protocol implements the fixed 90-byte vendor report frames that
// Razer peripherals exchange over USB control transfers.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire constants.
const (
	// ReportLen is the total size of a report frame on the wire.
	ReportLen = 90
	// ArgumentsLen is the size of the command payload area.
	ArgumentsLen = 80

	// DefaultTransactionID is set on newly built request frames.
	DefaultTransactionID = 0xFF
)

// Status values reported by the device in a response frame.
const (
	StatusNewCommand   = 0x00
	StatusBusy         = 0x01
	StatusSuccess      = 0x02
	StatusFailure      = 0x03
	StatusTimeout      = 0x04
	StatusNotSupported = 0x05
)

// ErrShortFrame is returned when decoding fewer bytes than a full frame.
var ErrShortFrame = errors.New("protocol: frame shorter than 90 bytes")

// Report is one vendor command or response frame.
//
// On the wire the frame is exactly ReportLen bytes: status, transaction id,
// remaining packets (big-endian u16), protocol type, data size, command
// class, command id, 80 payload bytes, checksum, trailing pad.
type Report struct {
	Status           uint8
	TransactionID    uint8
	RemainingPackets uint16
	ProtocolType     uint8
	DataSize         uint8
	CommandClass     uint8
	CommandID        uint8
	Arguments        [ArgumentsLen]byte
	CRC              uint8
	Reserved         uint8
}

// NewReport builds a request frame for the given command. All other fields
// are zero except the transaction id, which defaults to 0xFF.
func NewReport(commandClass, commandID, dataSize uint8) Report {
	return Report{
		TransactionID: DefaultTransactionID,
		DataSize:      dataSize,
		CommandClass:  commandClass,
		CommandID:     commandID,
	}
}

// EmptyReport builds an all-zero frame, transaction id included.
func EmptyReport() Report {
	return Report{}
}

// Encode serializes the frame into its wire layout.
func (r *Report) Encode() [ReportLen]byte {
	var buf [ReportLen]byte
	buf[0] = r.Status
	buf[1] = r.TransactionID
	binary.BigEndian.PutUint16(buf[2:4], r.RemainingPackets)
	buf[4] = r.ProtocolType
	buf[5] = r.DataSize
	buf[6] = r.CommandClass
	buf[7] = r.CommandID
	copy(buf[8:8+ArgumentsLen], r.Arguments[:])
	buf[88] = r.CRC
	buf[89] = r.Reserved
	return buf
}

// DecodeReport parses a wire frame. Input shorter than ReportLen is
// rejected; extra trailing bytes are ignored.
func DecodeReport(data []byte) (Report, error) {
	if len(data) < ReportLen {
		return Report{}, fmt.Errorf("%w: got %d bytes", ErrShortFrame, len(data))
	}
	var r Report
	r.Status = data[0]
	r.TransactionID = data[1]
	r.RemainingPackets = binary.BigEndian.Uint16(data[2:4])
	r.ProtocolType = data[4]
	r.DataSize = data[5]
	r.CommandClass = data[6]
	r.CommandID = data[7]
	copy(r.Arguments[:], data[8:8+ArgumentsLen])
	r.CRC = data[88]
	r.Reserved = data[89]
	return r, nil
}

// Checksum XOR-folds wire bytes 2 through 87 inclusive. The window is fixed
// by device firmware: it covers every field except status, transaction id,
// the checksum byte itself and the trailing pad.
func (r *Report) Checksum() uint8 {
	buf := r.Encode()
	var crc uint8
	for _, b := range buf[2:88] {
		crc ^= b
	}
	return crc
}

// Seal stores the computed checksum in the frame.
func (r *Report) Seal() {
	r.CRC = r.Checksum()
}

// String renders the frame header and the first payload bytes for
// diagnostics.
func (r *Report) String() string {
	return fmt.Sprintf("status=%02x id=%02x remaining=%04x proto=%02x size=%02x class=%02x cmd=%02x args=% 02x crc=%02x",
		r.Status, r.TransactionID, r.RemainingPackets, r.ProtocolType,
		r.DataSize, r.CommandClass, r.CommandID, r.Arguments[:16], r.CRC)
}
