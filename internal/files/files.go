// Package files holds small file system helpers shared by the hub cache and the content store.
package files

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultDirCreationPerm is used when creating cache and store directories.
const DefaultDirCreationPerm = 0755

// DefaultFileCreationPerm is used when creating cache and store files.
const DefaultFileCreationPerm = 0644

// Exists returns true if file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExecOnFileLock opens the lockPath file (or creates if it doesn't yet exist), locks it, and executes the
// function.
// If the lockPath is already locked, it polls with a 100 to 200 milliseconds period (randomly), until it
// acquires the lock or ctx is done.
//
// The lockPath is not removed. It's safe to remove it from the given fn, if one knows that no new calls to
// ExecOnFileLock with the same lockPath is going to be made.
func ExecOnFileLock(ctx context.Context, lockPath string, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		select {
		case <-ctx.Done():
			return errors.WithMessagef(ctx.Err(), "while waiting for lock %q", lockPath)
		case <-time.After(time.Millisecond * time.Duration(100+rand.Intn(100))):
		}
	}

	// Unlock in a deferred function, so it happens even if `fn()` panics.
	defer func() {
		unlockErr := fileLock.Unlock()
		if unlockErr != nil {
			if err == nil {
				err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
			} else {
				klog.Warningf("Error unlocking file %q: %v", lockPath, unlockErr)
			}
		}
	}()

	fn()
	return
}

// WriteAtomic writes content to filePath+".tmp" and then atomically moves it to filePath.
func WriteAtomic(filePath string, content []byte) error {
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, content, DefaultFileCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to write temporary file %q", tmpPath)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			klog.Warningf("Failed removing temporary file %q: %v", tmpPath, rmErr)
		}
		return errors.Wrapf(err, "failed to move %q to %q", tmpPath, filePath)
	}
	return nil
}
