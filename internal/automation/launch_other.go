// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package automation

import (
	"fmt"
	"runtime"
)

// Launch reports ErrHostUnavailable: Word automation exists only on Windows.
func Launch() (Application, error) {
	return nil, fmt.Errorf("%w: Word automation requires Windows (running on %s)", ErrHostUnavailable, runtime.GOOS)
}
