// Copyright 2026 The NRBF Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nrbf

// recordObjectID recovers a record's own identity for pruning/lookup
// purposes, trying ObjectId, then ClassInfo.ObjectId, then
// ArrayInfo.ObjectId — the first present. This core's BinaryArray
// records carry a flat ObjectId rather than a nested ArrayInfo, so the
// third case only exists for forward compatibility with record shapes
// this core doesn't otherwise produce.
func recordObjectID(n Node) (int32, bool) {
	if v, ok := n.Get("ObjectId"); ok {
		if i, ok := v.Int(); ok {
			return int32(i), true
		}
	}
	if ci, ok := n.Get("ClassInfo"); ok {
		if v, ok := ci.Get("ObjectId"); ok {
			if i, ok := v.Int(); ok {
				return int32(i), true
			}
		}
	}
	if ai, ok := n.Get("ArrayInfo"); ok {
		if v, ok := ai.Get("ObjectId"); ok {
			if i, ok := v.Int(); ok {
				return int32(i), true
			}
		}
	}
	return 0, false
}

// Backfill resolves every recorded forward reference against the
// object table, returning the mutated top-level record list. Parse
// must have been called first.
func (d *Decoder) Backfill(prune bool) ([]Node, error) {
	if !d.parsed {
		return nil, ErrNotParsed
	}

	for _, ref := range d.references {
		target, ok := d.objects[ref.ObjID]
		if !ok {
			d.log.Debugf("backfill: skipping reference to missing object %d", ref.ObjID)
			continue
		}
		values := d.values[ref.ObjID]

		topIdx := ref.Path[0]
		if topIdx < 0 || topIdx >= len(d.records) {
			continue
		}
		d.records[topIdx] = setAtPath(d.records[topIdx], ref.Path[1:], func(referring Node) Node {
			return backfillMerge(referring, target, values)
		})
	}

	if prune {
		d.pruneResolvedTargets()
	}
	return d.records, nil
}

// backfillMerge overlays target's fields onto referring, field by
// field, while preserving the referring record's own IdRef and
// RecordTypeEnum; it then assigns Values from the value table entry.
func backfillMerge(referring, target, values Node) Node {
	idRef, hadIdRef := referring.Get("IdRef")
	rte, hadRTE := referring.Get("RecordTypeEnum")

	merged := referring.merge(target)

	if hadIdRef {
		merged = merged.WithField("IdRef", idRef)
	}
	if hadRTE {
		merged = merged.WithField("RecordTypeEnum", rte)
	}
	merged = merged.WithField("Values", values)
	return merged
}

// pruneResolvedTargets removes, at most once per ObjID, the first
// top-level record whose identity equals a resolved reference's
// target.
func (d *Decoder) pruneResolvedTargets() {
	seen := map[int32]bool{}
	for _, ref := range d.references {
		if _, ok := d.objects[ref.ObjID]; !ok {
			continue
		}
		if d.pruned[ref.ObjID] || seen[ref.ObjID] {
			continue
		}
		seen[ref.ObjID] = true

		idx, found := findRecordIndex(d.records, ref.ObjID)
		if !found {
			continue
		}
		d.records = append(d.records[:idx], d.records[idx+1:]...)
		d.pruned[ref.ObjID] = true
	}
}

// findRecordIndex locates the first top-level record whose identity
// equals rid, returning a proper presence flag so callers can
// distinguish "found at index 0" from "not found".
func findRecordIndex(records []Node, rid int32) (int, bool) {
	for i, r := range records {
		if id, ok := recordObjectID(r); ok && id == rid {
			return i, true
		}
	}
	return 0, false
}

// setAtPath applies fn to the node reached by following path's indices
// into successive "Values" sequences starting from root, returning a
// new root with that node replaced. Because Node is an immutable value
// type, backfill rebuilds only the spine from root to the referring
// node instead of mutating shared state.
func setAtPath(root Node, path []int, fn func(Node) Node) Node {
	if len(path) == 0 {
		return fn(root)
	}
	valuesNode, ok := root.Get("Values")
	if !ok {
		return root
	}
	seq, ok := valuesNode.Seq()
	if !ok || path[0] < 0 || path[0] >= len(seq) {
		return root
	}
	newSeq := make([]Node, len(seq))
	copy(newSeq, seq)
	newSeq[path[0]] = setAtPath(seq[path[0]], path[1:], fn)
	return root.WithField("Values", NewSeq(newSeq))
}
