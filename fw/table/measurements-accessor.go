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

// MeasurementsAccessor is the view of the Measurements table handed to a
// single strategy instance: every read/write is automatically namespaced
// under the strategy's own name, so two strategies can keep scratch state
// on the same name without colliding, and a strategy never needs to know
// the table's internal layout. Every access is additionally gated on
// StrategyChoice: an accessor only ever sees (or writes) an entry for a
// name currently governed by its own strategy, matching
// measurements-accessor.cpp's denial-on-reassignment behavior, where a
// name reassigned to a different strategy becomes invisible to the old
// one regardless of who wrote the underlying data.
type MeasurementsAccessor struct {
	table        *MeasurementsTable
	fib          *FibStrategyTableStruct
	strategyName enc.Name
}

// NewMeasurementsAccessor builds an accessor scoped to strategyName over
// table, gated by fib's current StrategyChoice assignment.
func NewMeasurementsAccessor(table *MeasurementsTable, fib *FibStrategyTableStruct, strategyName enc.Name) *MeasurementsAccessor {
	return &MeasurementsAccessor{table: table, fib: fib, strategyName: strategyName}
}

// governs reports whether name is currently assigned, via the longest
// matching StrategyChoice entry, to this accessor's owning strategy.
func (a *MeasurementsAccessor) governs(name enc.Name) bool {
	return a.fib.FindStrategyEnc(name).Equal(a.strategyName)
}

func (a *MeasurementsAccessor) key() string { return a.strategyName.String() }

// Get returns the strategy's scratch value at name and whether it exists.
// Denied (returns false) if name is no longer governed by this strategy.
func (a *MeasurementsAccessor) Get(name enc.Name) (any, bool) {
	if !a.governs(name) {
		return nil, false
	}
	entry := a.table.get(name, time.Now())
	if entry == nil {
		return nil, false
	}
	v, ok := entry.data[a.key()]
	return v, ok
}

// Set stores the strategy's scratch value at name, creating or refreshing
// the underlying Measurements entry. A no-op if name is no longer
// governed by this strategy.
func (a *MeasurementsAccessor) Set(name enc.Name, value any) {
	if !a.governs(name) {
		return
	}
	entry := a.table.getOrInsert(name, time.Now())
	entry.data[a.key()] = value
}

// GetOrCreate returns the strategy's scratch value at name, calling create
// to populate it the first time it is observed. If name is no longer
// governed by this strategy, create's result is handed back without
// being persisted.
func (a *MeasurementsAccessor) GetOrCreate(name enc.Name, create func() any) any {
	if !a.governs(name) {
		return create()
	}
	entry := a.table.getOrInsert(name, time.Now())
	if v, ok := entry.data[a.key()]; ok {
		return v
	}
	v := create()
	entry.data[a.key()] = v
	return v
}

// FindLongestPrefixMatch returns the strategy's scratch value at the
// deepest live ancestor of name (including name itself) that this
// strategy still governs, for strategies that want to inherit a parent's
// measurement when a child name hasn't been observed yet.
func (a *MeasurementsAccessor) FindLongestPrefixMatch(name enc.Name) (any, bool) {
	now := time.Now()
	for i := len(name); i >= 0; i-- {
		prefix := name.Prefix(i)
		if !a.governs(prefix) {
			return nil, false
		}
		if entry := a.table.get(prefix, now); entry != nil {
			v, ok := entry.data[a.key()]
			return v, ok
		}
	}
	return nil, false
}

// ExtendLifetime extends name's Measurements entry expiry to at least
// now+d, creating the entry if needed, but never shortening an existing
// expiry. A no-op if name is no longer governed by this strategy.
func (a *MeasurementsAccessor) ExtendLifetime(name enc.Name, d time.Duration) {
	if !a.governs(name) {
		return
	}
	a.table.ExtendLifetime(name, d)
}
