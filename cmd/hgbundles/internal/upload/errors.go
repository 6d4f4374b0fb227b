// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package upload

import "fmt"

// ExhaustedError reports that an upload kept failing transiently until
// the attempt budget ran out. Non-transient failures never produce this
// error; they propagate on the first attempt.
type ExhaustedError struct {
	Backend  string
	Key      string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("upload of %s:%s not successful after %d attempts, giving up",
		e.Backend, e.Key, e.Attempts)
}
