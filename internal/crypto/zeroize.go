package crypto

import "runtime"

// Zeroize overwrites a byte slice to clear key material from memory. The
// garbage collector gives no timing guarantee, so session keys are wiped
// explicitly on every exit path that discards them.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeAll wipes each of the given slices.
func ZeroizeAll(bufs ...[]byte) {
	for _, b := range bufs {
		Zeroize(b)
	}
}
