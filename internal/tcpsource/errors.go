// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

package tcpsource

import "errors"

// ErrNoListener names the case where neither a bound socket nor an
// inherited fd could be obtained. No function in this package returns it:
// buildListener reports that case by logging and returning ok=false, and the
// supervisor then exits cleanly with no connections served.
var ErrNoListener = errors.New("tcpsource: no listener available")
