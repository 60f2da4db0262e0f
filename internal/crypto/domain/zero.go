package domain

// Zero overwrites a byte slice with zeros. The envelope service uses it to
// wipe derived encryption keys once the cipher has been constructed.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
