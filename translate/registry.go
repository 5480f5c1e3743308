// Package translate maintains per-device key remapping tables and the
// byte-oriented read/write protocol used to expose them.
package translate

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"sync"
)

// EntrySize is the wire size of one binding: two little-endian u16
// keycodes (from, to) back to back.
const EntrySize = 4

// ErrInvalidLength marks a write payload that is neither the one-byte
// delete sentinel nor whole u16 keycode pairs. No state changes.
var ErrInvalidLength = errors.New("translate: payload is not pairs of u16 keycodes")

// KeyTranslation remaps one source keycode to a destination keycode for a
// single device.
type KeyTranslation struct {
	From  uint16
	To    uint16
	Flags uint8
}

// WriteOutcome reports what a Set call did.
type WriteOutcome int

const (
	// Replaced means the device's bindings were replaced in full.
	Replaced WriteOutcome = iota
	// Deleted means the device's bindings were removed (or were already
	// absent; deletion is idempotent).
	Deleted
)

// Registry owns every device's binding table. All access goes through the
// registry; entries are never aliased out. A coarse lock guards mutation,
// lookups take the read side only.
type Registry struct {
	mu      sync.RWMutex
	devices map[uint16][]KeyTranslation
	logger  *slog.Logger
}

// NewRegistry returns an empty registry with no devices bound.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		devices: make(map[uint16][]KeyTranslation),
		logger:  logger,
	}
}

// Set applies a write payload for the given device id.
//
// A one-byte payload, whatever its value, deletes the device's bindings.
// One byte can never be valid binding data (the minimum bulk payload is
// EntrySize bytes), and the external write path cannot express "delete"
// as an empty write, so the single byte is reserved as the delete signal.
//
// Any other length must be a whole number of EntrySize pairs; the device's
// table is then replaced positionally with len/EntrySize entries. The
// existing backing array is reused when the entry count is unchanged and
// reallocated otherwise. A new table is fully populated before it becomes
// visible, so the entry count and storage never disagree.
func (r *Registry) Set(id uint16, buf []byte) (WriteOutcome, error) {
	if len(buf) == 1 {
		r.mu.Lock()
		_, existed := r.devices[id]
		delete(r.devices, id)
		r.mu.Unlock()
		if existed {
			r.logger.Warn("cleared translations for device", "device", id, "count", 0)
		}
		return Deleted, nil
	}

	if len(buf)%EntrySize != 0 {
		return 0, ErrInvalidLength
	}

	count := len(buf) / EntrySize

	r.mu.Lock()
	defer r.mu.Unlock()

	if count == 0 {
		// An empty table is never retained.
		delete(r.devices, id)
		return Replaced, nil
	}

	entries := r.devices[id]
	if len(entries) != count {
		entries = make([]KeyTranslation, count)
	}
	for i := 0; i < count; i++ {
		off := i * EntrySize
		entries[i] = KeyTranslation{
			From:  binary.LittleEndian.Uint16(buf[off:]),
			To:    binary.LittleEndian.Uint16(buf[off+2:]),
			Flags: 0,
		}
	}
	r.devices[id] = entries

	r.logger.Warn("translation count changed for device", "device", id, "count", count)
	return Replaced, nil
}

// Get serializes the device's bindings into out, EntrySize bytes per entry
// in table order, and returns the byte count. A device with no bindings
// produces a single zero byte (returns 1), distinguishing "no bindings"
// from a zero-length read. out must hold Count(id)*EntrySize bytes, and at
// least one.
func (r *Registry) Get(id uint16, out []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.devices[id]
	if !ok {
		out[0] = 0
		return 1
	}

	for i, e := range entries {
		off := i * EntrySize
		binary.LittleEndian.PutUint16(out[off:], e.From)
		binary.LittleEndian.PutUint16(out[off+2:], e.To)
	}
	return len(entries) * EntrySize
}

// Lookup scans the device's table for the first entry whose From matches
// key. This is the hot path on every input event; it takes the read lock
// and does not allocate.
func (r *Registry) Lookup(id, key uint16) (KeyTranslation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.devices[id] {
		if e.From == key {
			return e, true
		}
	}
	return KeyTranslation{}, false
}

// Count returns the number of bindings currently held for the device.
func (r *Registry) Count(id uint16) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices[id])
}

// Close drops every remaining device table. The registry is empty but
// usable afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = make(map[uint16][]KeyTranslation)
}
