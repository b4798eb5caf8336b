// Package cache keeps downloaded recordings on disk so remote sources are fetched once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/where"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func dir() string {
	path := filepath.Join(where.Cache(), "recordings")
	_ = filesystem.API().MkdirAll(path, 0o755)
	return path
}

// TTL is how long a downloaded recording is reused.
func TTL() time.Duration {
	return time.Duration(viper.GetInt(key.NetworkCacheHours)) * time.Hour
}

// Key derives a deterministic file name for a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(hash[:])
}

// Read returns the cached body of url if it exists and has not expired.
func Read(url string) ([]byte, bool) {
	if TTL() <= 0 {
		return nil, false
	}

	path := filepath.Join(dir(), Key(url))

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL() {
		return nil, false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Write stores body for url, swapping the file in atomically.
func Write(url string, body []byte) error {
	if TTL() <= 0 {
		return nil
	}

	path := filepath.Join(dir(), Key(url))
	tmpPath := path + ".tmp"

	if err := filesystem.API().WriteFile(tmpPath, body, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired downloads in the background.
func CollectGarbage() {
	go func() {
		removed := 0
		_ = afero.Walk(filesystem.API(), dir(), func(path string, info fs.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if time.Since(info.ModTime()) > TTL() {
				if filesystem.API().Remove(path) == nil {
					removed++
				}
			}
			return nil
		})

		if removed > 0 {
			log.Debugf("removed %d expired downloads", removed)
		}
	}()
}
