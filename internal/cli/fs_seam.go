package cli

import "os"

var osWriteFile = func(path string, b []byte, perm uint32) error {
	return os.WriteFile(path, b, os.FileMode(perm))
}

// writeFile is the one entry point commands use to write files, so tests
// can stub osWriteFile without touching the real filesystem.
func writeFile(path string, b []byte, perm uint32) error {
	return osWriteFile(path, b, perm)
}
