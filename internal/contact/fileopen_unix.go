//go:build !windows

package contact

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/folio/internal/errors"
)

// openAppend opens path for appending, creating it if needed. O_NOFOLLOW
// refuses a symlink planted at the log path; O_CLOEXEC keeps the descriptor
// out of child processes.
func openAppend(path string) (*os.File, error) {
	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND | syscall.O_NOFOLLOW | syscall.O_CLOEXEC
	fd, err := syscall.Open(path, flag, 0600)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("email log path is a symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openRead opens path read-only without following a final symlink.
func openRead(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, 0)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("email log path is a symlink")
		}
		if stderrors.Is(err, syscall.ENOENT) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
