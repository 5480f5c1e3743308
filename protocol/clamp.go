package protocol

// ClampU8 bounds value to [min, max]. Used by higher layers when packing
// argument bytes.
func ClampU8(value, min, max uint8) uint8 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// ClampU16 bounds value to [min, max].
func ClampU16(value, min, max uint16) uint16 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
