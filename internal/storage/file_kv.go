package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"rpd/internal/providers"
)

const fileExt = ".dat"

// FileKV stores one zstd-compressed file per key. Writes go through a tmp
// file, fsync and rename, so a crashed write leaves the previous value
// intact. Unreadable or corrupt files degrade to absent.
type FileKV struct {
	dir        string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileKV(dir string, compressor CompressorInterface, logger providers.Logger) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir, compressor: compressor, logger: logger}, nil
}

func (f *FileKV) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	return filepath.Join(f.dir, name+fileExt)
}

func (f *FileKV) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warnf(providers.TypeApp, "Unreadable record for key %q: %s", key, err)
		}
		return nil, false
	}
	val, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Corrupt record for key %q: %s", key, err)
		return nil, false
	}
	return val, true
}

func (f *FileKV) Set(key string, value []byte) error {
	data, err := f.compressor.Compress(value)
	if err != nil {
		return err
	}

	fileName := f.path(key)
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileKV) Keys(prefix string) []string {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Cannot list storage dir %s: %s", f.dir, err)
		return nil
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		key := string(raw)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

func (f *FileKV) Close() error { return nil }
