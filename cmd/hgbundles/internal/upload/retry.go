// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package upload

import (
	"errors"
	"io"
	"net"
	"syscall"
	"time"
)

// Policy bounds retries of transiently failing uploads. The schedule is
// deliberately fixed: object stores are reliable enough that anything
// beyond a few spaced attempts indicates a problem retrying won't fix.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Delay is the fixed pause between consecutive attempts.
	Delay time.Duration
}

// DefaultPolicy returns the production retry budget.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Delay: 15 * time.Second}
}

// transientErrnos are low-level socket failures worth retrying.
var transientErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.ECONNABORTED,
	syscall.EPIPE,
	syscall.ETIMEDOUT,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
}

// IsTransient reports whether err looks like a network-level failure
// that a later attempt could survive. Credential, permission and
// protocol errors are not transient and must propagate immediately.
func IsTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}
