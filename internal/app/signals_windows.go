//go:build windows

package app

import "os"

// contSignals is empty on Windows; there is no job-control resume signal.
func contSignals() []os.Signal {
	return nil
}
