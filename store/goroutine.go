package store

import "runtime"

// goroutineID returns the ID of the calling goroutine, parsed from the
// header of its stack trace: "goroutine <id> [running]:". IDs start at 1.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for _, b := range buf[len("goroutine "):n] {
		if b < '0' || b > '9' {
			break
		}
		id = id*10 + uint64(b-'0')
	}
	return id
}
