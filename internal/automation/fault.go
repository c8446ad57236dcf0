// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"errors"
	"fmt"
)

// HRESULTs the host returns when its process died or a reference went stale.
// All of them clear up after the host is restarted.
const (
	HResultRPCServerUnavailable int32 = -2147023174 // 0x800706BA
	HResultRPCCallFailed        int32 = -2147023170 // 0x800706BE
	HResultInvalidPointer       int32 = -2147467261 // 0x80004003
)

var transientCodes = map[int32]bool{
	HResultRPCServerUnavailable: true,
	HResultRPCCallFailed:        true,
	HResultInvalidPointer:       true,
}

// Fault is an error returned by the automation host for a single call.
type Fault struct {
	// Op names the member that was invoked, e.g. "Documents.Open".
	Op string
	// Code is the HRESULT of the failed call.
	Code int32
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: hresult 0x%08X: %v", f.Op, uint32(f.Code), f.Err)
	}
	return fmt.Sprintf("%s: hresult 0x%08X", f.Op, uint32(f.Code))
}

func (f *Fault) Unwrap() error { return f.Err }

// IsTransient reports whether err looks like a recoverable host fault:
// one of the RPC or stale-pointer HRESULTs, or a collection that stopped
// supporting enumeration. Restarting the host is the expected remedy.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var f *Fault
	if errors.As(err, &f) && transientCodes[f.Code] {
		return true
	}

	return errors.Is(err, ErrNotEnumerable)
}
