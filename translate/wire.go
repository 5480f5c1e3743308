package translate

// DeleteSentinel is the reserved one-byte write payload that removes every
// binding for a device.
var DeleteSentinel = []byte{0}

// EncodePairs builds a bulk-replace write payload from bindings.
func EncodePairs(pairs []KeyTranslation) []byte {
	buf := make([]byte, 0, len(pairs)*EntrySize)
	for _, p := range pairs {
		buf = append(buf,
			byte(p.From), byte(p.From>>8),
			byte(p.To), byte(p.To>>8),
		)
	}
	return buf
}

// DecodePayload parses a read payload. The one-byte "no bindings" sentinel
// decodes to an empty slice; anything else must be whole keycode pairs.
func DecodePayload(buf []byte) ([]KeyTranslation, error) {
	if len(buf) == 1 {
		return nil, nil
	}
	if len(buf)%EntrySize != 0 {
		return nil, ErrInvalidLength
	}
	pairs := make([]KeyTranslation, 0, len(buf)/EntrySize)
	for off := 0; off < len(buf); off += EntrySize {
		pairs = append(pairs, KeyTranslation{
			From: uint16(buf[off]) | uint16(buf[off+1])<<8,
			To:   uint16(buf[off+2]) | uint16(buf[off+3])<<8,
		})
	}
	return pairs, nil
}
