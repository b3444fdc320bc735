// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package execsource

import "errors"

// ErrMissingStdio is returned when the child's stdout pipe (or, with
// stderr included, its stderr pipe) cannot be attached.
var ErrMissingStdio = errors.New("execsource: failed to attach child stdio")
