/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	enc "github.com/named-data/ndnd/std/encoding"
)

// nameTreeEntry is one node of the NameTree: the hash-indexed backbone
// that the FIB+StrategyChoice, PIT, CS, and Measurements tables all
// attach their per-name state to, so a single name lookup on the
// forwarding fast path locates every table's entry for that name at once.
type nameTreeEntry struct {
	name     enc.Name
	depth    int
	parent   *nameTreeEntry
	children map[uint64]*nameTreeEntry

	fibEntry          *baseFibStrategyEntry
	pitEntries        []*basePitEntry
	csEntries         []*baseCsEntry
	measurementsEntry *measurementsEntry
}

func newNameTreeEntry(name enc.Name, depth int, parent *nameTreeEntry) *nameTreeEntry {
	return &nameTreeEntry{
		name:     name,
		depth:    depth,
		parent:   parent,
		children: make(map[uint64]*nameTreeEntry),
	}
}

// isEmpty reports whether this entry carries no table state and has no
// children, meaning it can be pruned from the tree.
func (e *nameTreeEntry) isEmpty() bool {
	return e.fibEntry == nil &&
		len(e.pitEntries) == 0 &&
		len(e.csEntries) == 0 &&
		e.measurementsEntry == nil &&
		len(e.children) == 0
}

// NameTree is the shared name-indexed backbone for the data-plane tables.
// It is only ever touched by the single forwarding thread that owns it,
// so it needs no internal locking.
type NameTree struct {
	root *nameTreeEntry
}

// NewNameTree constructs an empty NameTree.
func NewNameTree() *NameTree {
	return &NameTree{root: newNameTreeEntry(enc.Name{}, 0, nil)}
}

// findOrInsert returns the entry for name, creating every intermediate
// entry along the way that does not already exist.
func (t *NameTree) findOrInsert(name enc.Name) *nameTreeEntry {
	cur := t.root
	for i, comp := range name {
		h := comp.Hash()
		next, ok := cur.children[h]
		if !ok {
			next = newNameTreeEntry(name[:i+1], i+1, cur)
			cur.children[h] = next
		}
		cur = next
	}
	return cur
}

// find returns the entry for an exact name, or nil if none exists.
func (t *NameTree) find(name enc.Name) *nameTreeEntry {
	cur := t.root
	for _, comp := range name {
		next, ok := cur.children[comp.Hash()]
		if !ok {
			return nil
		}
		cur = next
	}
	if cur == t.root && len(name) == 0 {
		return cur
	}
	return cur
}

// findLongestPrefixFIBMatch walks name component by component, returning
// the deepest entry at name or one of its prefixes that carries a FIB entry.
func (t *NameTree) findLongestPrefixFIBMatch(name enc.Name) *nameTreeEntry {
	cur := t.root
	var longest *nameTreeEntry
	if cur.fibEntry != nil {
		longest = cur
	}
	for _, comp := range name {
		next, ok := cur.children[comp.Hash()]
		if !ok {
			break
		}
		cur = next
		if cur.fibEntry != nil {
			longest = cur
		}
	}
	return longest
}

// findLongestPrefixStrategyMatch is the same walk, for the deepest
// explicit strategy assignment at name or one of its prefixes. The root always carries
// a default strategy, so this never returns nil once one has been set there.
func (t *NameTree) findLongestPrefixStrategyMatch(name enc.Name) *nameTreeEntry {
	cur := t.root
	var longest *nameTreeEntry
	if cur.fibEntry != nil && cur.fibEntry.strategy != nil {
		longest = cur
	}
	for _, comp := range name {
		next, ok := cur.children[comp.Hash()]
		if !ok {
			break
		}
		cur = next
		if cur.fibEntry != nil && cur.fibEntry.strategy != nil {
			longest = cur
		}
	}
	return longest
}

// prune removes e and every now-empty ancestor, stopping at the root or
// at the first ancestor still carrying state.
func (t *NameTree) prune(e *nameTreeEntry) {
	for e != nil && e != t.root && e.isEmpty() {
		parent := e.parent
		delete(parent.children, e.name[len(e.name)-1].Hash())
		e = parent
	}
}
