package sensitivedata

// Zero overwrites b with zeros. Use it on key material and passphrases once
// they have been consumed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
