//go:build unix

package hostenv

import "golang.org/x/sys/unix"

func accessWritable(path string) (writable, supported bool) {
	return unix.Access(path, unix.W_OK) == nil, true
}
