/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	enc "github.com/named-data/ndnd/std/encoding"
)

// measurementsEntry is per-name scratch state a strategy keeps between
// Interests to the same name, e.g. an observed RTT or a round-robin
// cursor. It is evicted if not refreshed within its lifetime.
type measurementsEntry struct {
	name       enc.Name
	expiration time.Time
	// data is keyed by strategy name so unrelated strategies sharing a
	// name in the tree (e.g. across a strategy reassignment) never read
	// or clobber each other's scratch state.
	data map[string]any
}

// MeasurementsTable is the process-wide Measurements table: per-name
// strategy scratch state, expired lazily as entries are looked up.
type MeasurementsTable struct {
	tree     *NameTree
	lifetime time.Duration
}

// NewMeasurementsTable constructs a MeasurementsTable sharing tree with
// the rest of the forwarding tables; entries not refreshed within
// lifetime are treated as expired.
func NewMeasurementsTable(tree *NameTree, lifetime time.Duration) *MeasurementsTable {
	return &MeasurementsTable{tree: tree, lifetime: lifetime}
}

func (m *MeasurementsTable) liveEntry(node *nameTreeEntry, now time.Time) *measurementsEntry {
	if node.measurementsEntry == nil {
		return nil
	}
	if now.After(node.measurementsEntry.expiration) {
		node.measurementsEntry = nil
		m.tree.prune(node)
		return nil
	}
	return node.measurementsEntry
}

// get returns the live entry at the exact name, without creating one.
func (m *MeasurementsTable) get(name enc.Name, now time.Time) *measurementsEntry {
	node := m.tree.find(name)
	if node == nil {
		return nil
	}
	return m.liveEntry(node, now)
}

// getOrInsert returns the entry at the exact name, creating (or
// refreshing the expiry of) one as needed.
func (m *MeasurementsTable) getOrInsert(name enc.Name, now time.Time) *measurementsEntry {
	node := m.tree.findOrInsert(name)
	entry := m.liveEntry(node, now)
	if entry == nil {
		entry = &measurementsEntry{name: name, data: make(map[string]any)}
		node.measurementsEntry = entry
	}
	entry.expiration = now.Add(m.lifetime)
	return entry
}

// ExtendLifetime ensures name's entry (creating it if absent) survives
// until at least now+d, but never shortens an entry's existing expiry:
// a strategy extending an ancestor it has already extended more
// aggressively must not undo that.
func (m *MeasurementsTable) ExtendLifetime(name enc.Name, d time.Duration) {
	now := time.Now()
	node := m.tree.findOrInsert(name)
	entry := m.liveEntry(node, now)
	want := now.Add(d)
	if entry == nil {
		node.measurementsEntry = &measurementsEntry{name: name, data: make(map[string]any), expiration: want}
		return
	}
	if want.After(entry.expiration) {
		entry.expiration = want
	}
}

// findLongestPrefixMatch returns the deepest live entry at or above name.
func (m *MeasurementsTable) findLongestPrefixMatch(name enc.Name, now time.Time) *measurementsEntry {
	cur := m.tree.root
	var longest *measurementsEntry
	if e := m.liveEntry(cur, now); e != nil {
		longest = e
	}
	for _, comp := range name {
		next, ok := cur.children[comp.Hash()]
		if !ok {
			break
		}
		cur = next
		if e := m.liveEntry(cur, now); e != nil {
			longest = e
		}
	}
	return longest
}
