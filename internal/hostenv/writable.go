package hostenv

import (
	"os"

	"github.com/spf13/afero"
)

const probePrefix = ".envcheck-"

// probeWritable checks a directory by creating and removing a temporary
// file in it, and a regular file by opening it for writing.
func probeWritable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}

	if !info.IsDir() {
		f, err := fs.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return false
		}
		_ = f.Close()
		return true
	}

	f, err := afero.TempFile(fs, path, probePrefix)
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = fs.Remove(name)
	return true
}
