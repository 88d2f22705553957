package daemon

import (
	"os"
	"path/filepath"
	"time"
)

const (
	homeFlag  = "home"
	forceFlag = "force"

	shutdownTimeout = 5 * time.Second
)

func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home + path[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}
