package audio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// speechCache keeps synthesized MP3s keyed by the request that produced them
type speechCache struct {
	dir string
}

func newSpeechCache(dir string) (*speechCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &speechCache{dir: dir}, nil
}

// cacheKey hashes every part of a request that changes the audio
func cacheKey(parts ...string) string {
	h := md5.New()
	for _, part := range parts {
		io.WriteString(h, part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// path fans entries out over 256 subdirectories
func (c *speechCache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key[2:]+".mp3")
}

// fetch copies a cached entry to dst and reports whether there was one
func (c *speechCache) fetch(key, dst string) (bool, error) {
	src := c.path(key)
	if _, err := os.Stat(src); err != nil {
		return false, nil
	}
	return true, copyAudio(src, dst)
}

func (c *speechCache) store(key, src string) error {
	return copyAudio(src, c.path(key))
}

// writeAudio streams r into path, creating the directory as needed
func writeAudio(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, r)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no audio data received")
	}
	return nil
}

func copyAudio(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeAudio(dst, in)
}
