package fsys

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// FileSystem is everything the build engine needs from the disk
type FileSystem interface {
	// Stat reports whether name exists and its modification time. A missing
	// file is not an error.
	Stat(name string) (exists bool, mtime time.Time, err error)
	// Touch sets the modification time of name to now and returns it
	Touch(name string) (time.Time, error)
	// Remove deletes name; removing a missing file is not an error
	Remove(name string) error
}

// OS is the FileSystem backed by the host operating system. With NoCreate
// set, Touch leaves missing files alone.
type OS struct {
	NoCreate bool
}

func (OS) Stat(name string) (bool, time.Time, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, time.Time{}, nil
	}

	if err != nil {
		return false, time.Time{}, err
	}

	return true, info.ModTime(), nil
}

func (system OS) Touch(name string) (time.Time, error) {
	return system.TouchAt(name, time.Now())
}

// TouchAt sets the modification time of name to at
func (system OS) TouchAt(name string, at time.Time) (time.Time, error) {
	err := os.Chtimes(name, at, at)
	if errors.Is(err, fs.ErrNotExist) {
		if system.NoCreate {
			return time.Time{}, nil
		}

		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY, 0o666)
		if err != nil {
			return time.Time{}, err
		}
		if err := file.Close(); err != nil {
			return time.Time{}, err
		}

		err = os.Chtimes(name, at, at)
		if err != nil {
			return time.Time{}, err
		}
	} else if err != nil {
		return time.Time{}, err
	}

	_, mtime, err := system.Stat(name)
	return mtime, err
}

func (OS) Remove(name string) error {
	err := os.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
