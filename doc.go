// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nrbf decodes a .NET Remoting Binary Format (MS-NRBF) stream
// into a tree of Node values, resolves its forward references, and
// reduces the result to a minified, application-shaped tree.
//
// A typical caller opens a stream, parses it, then optionally backfills
// and crunches:
//
//	dec, err := nrbf.New("payload.bin", nrbf.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dec.Close()
//
//	if _, err := dec.Parse(); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := dec.Backfill(true); err != nil {
//		log.Fatal(err)
//	}
//	tree, err := dec.Crunch()
package nrbf
