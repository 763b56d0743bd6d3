//go:build windows

package contact

import "os"

// openAppend opens path for appending. Windows has no O_NOFOLLOW.
func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

// openRead opens path read-only.
func openRead(path string) (*os.File, error) {
	return os.Open(path)
}
