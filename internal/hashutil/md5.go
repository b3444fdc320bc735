// Copyright (c) 2025 Nishisan. All rights reserved.
// Use of this source code is governed by the N-Backup License (Non-Commercial Evaluation)
// that can be found in the LICENSE file.

// Package hashutil provides small byte-stable hashing helpers used at the
// edges of the ingestion pipeline.
package hashutil

import (
	"crypto/md5"
	"encoding/hex"
)

// MD5Hex returns the lowercase hex-encoded MD5 digest of b.
func MD5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
