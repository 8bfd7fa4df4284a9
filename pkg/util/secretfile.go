package util

import (
	"errors"
	"fmt"
	"os"

	"github.com/opencontainers/selinux/go-selinux"
	"golang.org/x/sys/unix"
)

const (
	SecretFileMode os.FileMode = 0o600
	SecretDirMode  os.FileMode = 0o700

	selinuxSecretType = "auth_home_t"
)

var ErrFileExists = errors.New("file already exists")

// WriteSecretFile writes data to path with owner-only permissions. A symlink
// at path is refused rather than followed. Unless overwrite is set an
// existing file is left untouched and ErrFileExists is returned.
func WriteSecretFile(path string, data []byte, overwrite bool) error {
	if err := MkDirWithPerm(path, SecretDirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	flags := unix.O_WRONLY | unix.O_CREAT | unix.O_CLOEXEC | unix.O_NOFOLLOW
	if overwrite {
		flags |= unix.O_TRUNC
	} else {
		flags |= unix.O_EXCL
	}
	fd, err := unix.Open(path, flags, uint32(SecretFileMode))
	if err != nil {
		if errors.Is(err, unix.EEXIST) {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	// umask or a pre-existing file may have left wider bits behind.
	if err := f.Chmod(SecretFileMode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return ApplySelinuxContext(path)
}

// ApplySelinuxContext relabels path as auth_home_t when SELinux is enabled.
func ApplySelinuxContext(path string) error {
	if !selinux.GetEnabled() {
		return nil
	}
	current, err := selinux.FileLabel(path)
	if err != nil {
		return err
	}
	ctx, err := selinux.NewContext(current)
	if err != nil {
		return err
	}
	ctx["type"] = selinuxSecretType
	return selinux.SetFileLabel(path, ctx.Get())
}
