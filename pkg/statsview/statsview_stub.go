//go:build !statsview

package statsview

import "github.com/retroenv/retrogolib/log"

// Launch logs that the binary was built without the stats server.
func Launch(logger *log.Logger) {
	logger.Warn("Stats server not available, rebuild with -tags statsview")
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
