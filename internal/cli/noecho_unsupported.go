//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"errors"
	"os"
)

func readLineNoEcho(_ *os.File) (string, error) {
	return "", errors.New("no-echo input is not supported on this platform")
}
