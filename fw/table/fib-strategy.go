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

// FibNextHopEntry is one forwarding nexthop: a face to forward on and the
// routing cost associated with reaching the name through it.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

// FibStrategyEntry is the read-only view of a FIB+StrategyChoice entry
// exposed to management and to GetAllFIBEntries callers.
type FibStrategyEntry interface {
	Name() enc.Name
	GetStrategy() enc.Name
	GetNextHops() []*FibNextHopEntry
}

// baseFibStrategyEntry is a name's combined forwarding and strategy-choice
// state, kept on a single NameTree node since an NDN forwarder's routing
// and its strategy assignment always apply to the same name hierarchy.
type baseFibStrategyEntry struct {
	component enc.Component
	name      enc.Name
	nexthops  []*FibNextHopEntry
	strategy  enc.Name
}

// Name returns the entry's name.
func (e *baseFibStrategyEntry) Name() enc.Name { return e.name }

// GetStrategy returns the strategy explicitly assigned at this name, or
// nil if only nexthops (no strategy) were assigned here.
func (e *baseFibStrategyEntry) GetStrategy() enc.Name { return e.strategy }

// GetNextHops returns the nexthops registered directly at this name.
func (e *baseFibStrategyEntry) GetNextHops() []*FibNextHopEntry { return e.nexthops }

// FibStrategyTableStruct is the combined FIB and StrategyChoice table:
// one longest-prefix-match structure over the NameTree, since both tables
// share the same name keyspace and the same lookup on every Interest.
type FibStrategyTableStruct struct {
	tree *NameTree
}

// FibStrategyTable is the process-wide FIB+StrategyChoice table.
var FibStrategyTable = newFibStrategyTable()

func newFibStrategyTable() *FibStrategyTableStruct {
	return &FibStrategyTableStruct{tree: NewNameTree()}
}

// NewFibStrategyTable constructs a FIB+StrategyChoice table over tree,
// isolated from the process-wide FibStrategyTable singleton — for a
// forwarding thread (or test) that wants its own FIB/StrategyChoice
// state rather than sharing the process-wide one.
func NewFibStrategyTable(tree *NameTree) *FibStrategyTableStruct {
	return &FibStrategyTableStruct{tree: tree}
}

// Tree returns the NameTree backbone shared with the PIT, Content Store,
// and Measurements tables of the forwarding thread(s) using this FIB.
func (f *FibStrategyTableStruct) Tree() *NameTree { return f.tree }

func (f *FibStrategyTableStruct) entryAt(name enc.Name, create bool) *baseFibStrategyEntry {
	var node *nameTreeEntry
	if create {
		node = f.tree.findOrInsert(name)
	} else {
		node = f.tree.find(name)
		if node == nil {
			return nil
		}
	}
	if node.fibEntry == nil {
		if !create {
			return nil
		}
		var comp enc.Component
		if len(name) > 0 {
			comp = name[len(name)-1]
		}
		node.fibEntry = &baseFibStrategyEntry{component: comp, name: name}
	}
	return node.fibEntry
}

// InsertNextHopEnc adds, or updates the cost of, a nexthop for name.
func (f *FibStrategyTableStruct) InsertNextHopEnc(name enc.Name, faceID uint64, cost uint64) {
	entry := f.entryAt(name, true)
	for _, nh := range entry.nexthops {
		if nh.Nexthop == faceID {
			nh.Cost = cost
			return
		}
	}
	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: faceID, Cost: cost})
}

// RemoveNextHopEnc removes the nexthop for faceID from name's FIB entry,
// pruning the entry (and empty NameTree ancestors) if nothing is left on it.
func (f *FibStrategyTableStruct) RemoveNextHopEnc(name enc.Name, faceID uint64) {
	node := f.tree.find(name)
	if node == nil || node.fibEntry == nil {
		return
	}
	kept := node.fibEntry.nexthops[:0]
	for _, nh := range node.fibEntry.nexthops {
		if nh.Nexthop != faceID {
			kept = append(kept, nh)
		}
	}
	node.fibEntry.nexthops = kept
	f.tryPruneFibEntry(node)
}

// RemoveNextHopByFace removes faceID from every FIB entry in the table,
// used when a face goes down.
func (f *FibStrategyTableStruct) RemoveNextHopByFace(faceID uint64) {
	f.walk(f.tree.root, func(node *nameTreeEntry) {
		if node.fibEntry == nil {
			return
		}
		kept := node.fibEntry.nexthops[:0]
		for _, nh := range node.fibEntry.nexthops {
			if nh.Nexthop != faceID {
				kept = append(kept, nh)
			}
		}
		node.fibEntry.nexthops = kept
	})
}

func (f *FibStrategyTableStruct) tryPruneFibEntry(node *nameTreeEntry) {
	if node.fibEntry != nil && len(node.fibEntry.nexthops) == 0 && node.fibEntry.strategy == nil {
		node.fibEntry = nil
		f.tree.prune(node)
	}
}

// SetStrategyEnc assigns the strategy to use for Interests under name.
func (f *FibStrategyTableStruct) SetStrategyEnc(name enc.Name, strategy enc.Name) {
	entry := f.entryAt(name, true)
	entry.strategy = strategy
}

// UnsetStrategyEnc removes the explicit strategy assignment at name, so
// lookups under it fall back to the next ancestor's assignment.
func (f *FibStrategyTableStruct) UnsetStrategyEnc(name enc.Name) {
	node := f.tree.find(name)
	if node == nil || node.fibEntry == nil {
		return
	}
	node.fibEntry.strategy = nil
	f.tryPruneFibEntry(node)
}

// FindNextHopsEnc returns the nexthops for the longest FIB prefix of name,
// or nil if there is none.
func (f *FibStrategyTableStruct) FindNextHopsEnc(name enc.Name) []*FibNextHopEntry {
	node := f.tree.findLongestPrefixFIBMatch(name)
	if node == nil {
		return nil
	}
	return node.fibEntry.nexthops
}

// FindStrategyEnc returns the strategy name in effect for name: the
// explicit assignment at the longest matching prefix, falling back to
// whatever is assigned at "/" (which must always be set).
func (f *FibStrategyTableStruct) FindStrategyEnc(name enc.Name) enc.Name {
	node := f.tree.findLongestPrefixStrategyMatch(name)
	if node == nil {
		return nil
	}
	return node.fibEntry.strategy
}

// GetAllFIBEntries returns every name in the table carrying at least one nexthop.
func (f *FibStrategyTableStruct) GetAllFIBEntries() []FibStrategyEntry {
	var out []FibStrategyEntry
	f.walk(f.tree.root, func(node *nameTreeEntry) {
		if node.fibEntry != nil && len(node.fibEntry.nexthops) > 0 {
			out = append(out, node.fibEntry)
		}
	})
	return out
}

// GetNumFIBEntries returns the number of names carrying at least one nexthop.
func (f *FibStrategyTableStruct) GetNumFIBEntries() int {
	return len(f.GetAllFIBEntries())
}

func (f *FibStrategyTableStruct) walk(node *nameTreeEntry, visit func(*nameTreeEntry)) {
	visit(node)
	for _, child := range node.children {
		f.walk(child, visit)
	}
}
