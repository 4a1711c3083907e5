package driver

import (
	"fmt"
	"os"
	"path/filepath"
)

// SourceExt is the script file extension.
const SourceExt = ".rt"

// HomeEnv names the environment variable overriding the cache root.
const HomeEnv = "RTS_HOME"

// LoadSource reads a script and guarantees a trailing newline.
func LoadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return withTrailingNewline(data), nil
}

func withTrailingNewline(src []byte) []byte {
	if len(src) > 0 && src[len(src)-1] == '\n' {
		return src
	}
	out := make([]byte, len(src), len(src)+1)
	copy(out, src)
	return append(out, '\n')
}

// CacheDir returns the dependency cache root: $RTS_HOME, or ~/.rts.
func CacheDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Abs(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".rts"), nil
}
