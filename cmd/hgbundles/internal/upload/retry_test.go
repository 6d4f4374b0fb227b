// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package upload

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"op error", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"wrapped conn reset", fmt.Errorf("upload: %w", syscall.ECONNRESET), true},
		{"timeout", &net.DNSError{IsTimeout: true}, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"host unreachable", fmt.Errorf("dial: %w", syscall.EHOSTUNREACH), true},
		{"permission denied", os.ErrPermission, false},
		{"plain error", errors.New("access denied"), false},
		{"missing credentials", fmt.Errorf("no valid providers in chain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", p.Attempts)
	}
	if p.Delay != 15*time.Second {
		t.Errorf("Delay = %v, want 15s", p.Delay)
	}
}
