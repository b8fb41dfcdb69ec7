// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render is the textual-rendering collaborator for decoded
// node trees. It lives outside the core package deliberately: the
// decoder itself never serializes, it only builds Node trees.
package render

import (
	"bytes"
	"encoding/json"
)

// jsonMarshaler is satisfied by nrbf.Node without importing the core
// package, keeping render a one-way dependency (cmd -> render -> core
// only through the interface, never render -> core by name).
type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

// PrettyJSON renders v as indented JSON text.
func PrettyJSON(v jsonMarshaler) (string, error) {
	buf, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf), err
	}
	return pretty.String(), nil
}
