// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"github.com/zeebo/xxh3"
)

// StreamDigest returns a content hash over the decoded top-level record
// list's JSON rendering, suitable for deduplicating equivalent streams
// or caching crunched output keyed by input identity. It does not hash
// the raw wire bytes, so two streams that decode to the same tree
// (ObjectIds included) get the same digest even if their encodings
// differ. Parse must have been called first.
func (d *Decoder) StreamDigest() (uint64, error) {
	if !d.parsed {
		return 0, ErrNotParsed
	}
	buf, err := NewSeq(d.records).MarshalJSON()
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(buf), nil
}
