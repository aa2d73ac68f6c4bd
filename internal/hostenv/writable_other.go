//go:build !unix

package hostenv

func accessWritable(string) (writable, supported bool) {
	return false, false
}
