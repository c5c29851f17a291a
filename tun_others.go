//go:build !(darwin || linux || windows)

package tun

// Native returns a policy whose allocator always fails, reported as an
// unknown error.
func Native() Platform {
	return Platform{OS: OSUnknown, Allocate: func([]byte) int { return -1 }, Release: closeHandle}
}
