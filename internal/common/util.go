package common

// WipeByteArray overwrites the contents of b with zeros. Useful for removing
// passwords and key material from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
