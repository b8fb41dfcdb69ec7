// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

import (
	"github.com/golang/snappy"
)

// CrunchCompressed runs Crunch and returns the result as snappy-compressed
// JSON (snappy block format, not the framed stream format), a compact
// form suitable for storing alongside the original stream.
func (d *Decoder) CrunchCompressed() ([]byte, error) {
	crunched, err := d.Crunch()
	if err != nil {
		return nil, err
	}
	buf, err := crunched.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, buf), nil
}

// DecompressCrunched reverses CrunchCompressed's snappy block encoding, returning
// the raw JSON bytes for an application to unmarshal as it sees fit.
func DecompressCrunched(compressed []byte) ([]byte, error) {
	return snappy.Decode(nil, compressed)
}
