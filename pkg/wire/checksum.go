package wire

// Checksum calculates the 8-bit Fletcher checksum over data.
func Checksum(data []byte) (ckA, ckB byte) {
	for _, b := range data {
		ckA += b
		ckB += ckA
	}
	return
}

// ValidChecksum reports whether data sums to ckA, ckB.
func ValidChecksum(data []byte, ckA, ckB byte) bool {
	a, b := Checksum(data)
	return a == ckA && b == ckB
}
