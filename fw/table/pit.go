/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"time"

	"github.com/named-data/ndnd/fw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
)

// PitInRecord tracks one downstream face that has an outstanding Interest
// registered against a PIT entry.
type PitInRecord struct {
	Face            uint64
	LatestNonce     uint32
	LatestTimestamp time.Time
	LatestEncryptedPacketSize uint64
	ExpirationTime  time.Time
	PitToken        []byte
}

// PitOutRecord tracks one upstream face a PIT entry's Interest was
// forwarded to.
type PitOutRecord struct {
	Face            uint64
	LatestNonce     uint32
	LatestTimestamp time.Time
	LatestEncryptedPacketSize uint64
	ExpirationTime  time.Time
}

// PitEntry is the view of a Pending Interest Table entry exposed outside
// package table, to strategies and the Forwarder pipeline.
type PitEntry interface {
	EncName() enc.Name
	CanBePrefix() bool
	MustBeFresh() bool
	ForwardingHintNew() enc.Name
	InRecords() map[uint64]*PitInRecord
	OutRecords() map[uint64]*PitOutRecord
	ExpirationTime() time.Time
	Satisfied() bool
	SetSatisfied(s bool)
	Token() uint32
	SetExpirationTime(t time.Time)
	ClearInRecords()
	ClearOutRecords()
	InsertInRecord(interest *defn.FwInterest, faceID uint64, pitToken []byte) (record *PitInRecord, alreadyExists bool, prevNonce uint32)
	InsertOutRecord(interest *defn.FwInterest, faceID uint64) *PitOutRecord

	// Scratch and SetScratch give a strategy a per-entry scratch slot,
	// keyed by the strategy's own name so unrelated strategies never
	// collide (e.g. Weighted-Load-Balancer's PitEntryInfo.creationTime).
	Scratch(key string) (any, bool)
	SetScratch(key string, v any)
}

// basePitEntry is a single Pending Interest Table entry: one row per
// distinct (name, selectors) tuple with Interests still outstanding for it.
type basePitEntry struct {
	encname           enc.Name
	canBePrefix       bool
	mustBeFresh       bool
	forwardingHintNew enc.Name
	inRecords         map[uint64]*PitInRecord
	outRecords        map[uint64]*PitOutRecord
	expirationTime    time.Time
	satisfied         bool
	token             uint32
	scratch           map[string]any
}

// EncName returns the entry's name.
func (e *basePitEntry) EncName() enc.Name { return e.encname }

// CanBePrefix returns whether any outstanding Interest set CanBePrefix.
func (e *basePitEntry) CanBePrefix() bool { return e.canBePrefix }

// MustBeFresh returns whether any outstanding Interest set MustBeFresh.
func (e *basePitEntry) MustBeFresh() bool { return e.mustBeFresh }

// ForwardingHintNew returns the forwarding hint carried by the Interest that created this entry.
func (e *basePitEntry) ForwardingHintNew() enc.Name { return e.forwardingHintNew }

// InRecords returns the entry's downstream records, keyed by face id.
func (e *basePitEntry) InRecords() map[uint64]*PitInRecord { return e.inRecords }

// OutRecords returns the entry's upstream records, keyed by face id.
func (e *basePitEntry) OutRecords() map[uint64]*PitOutRecord { return e.outRecords }

// ExpirationTime returns the latest time at which some InRecord's Interest expires.
func (e *basePitEntry) ExpirationTime() time.Time { return e.expirationTime }

// SetExpirationTime overrides the entry's expiry, used to shorten it to
// straggler time once the entry is satisfied, expired, or rejected.
func (e *basePitEntry) SetExpirationTime(t time.Time) { e.expirationTime = t }

// Satisfied reports whether this entry has already been satisfied by Data
// (kept briefly afterward for loop suppression).
func (e *basePitEntry) Satisfied() bool { return e.satisfied }

// SetSatisfied marks whether this entry has been satisfied.
func (e *basePitEntry) SetSatisfied(s bool) { e.satisfied = s }

// Token returns the PIT token assigned to this entry, echoed by faces
// that support it to correlate Data back to this entry without a name lookup.
func (e *basePitEntry) Token() uint32 { return e.token }

// Scratch returns the strategy-keyed scratch value stored under key.
func (e *basePitEntry) Scratch(key string) (any, bool) {
	if e.scratch == nil {
		return nil, false
	}
	v, ok := e.scratch[key]
	return v, ok
}

// SetScratch stores a strategy-keyed scratch value under key.
func (e *basePitEntry) SetScratch(key string, v any) {
	if e.scratch == nil {
		e.scratch = make(map[string]any)
	}
	e.scratch[key] = v
}

// ClearInRecords removes every downstream record.
func (e *basePitEntry) ClearInRecords() {
	e.inRecords = make(map[uint64]*PitInRecord)
}

// ClearOutRecords removes every upstream record.
func (e *basePitEntry) ClearOutRecords() {
	e.outRecords = make(map[uint64]*PitOutRecord)
}

// InsertInRecord creates or updates the downstream record for faceID from
// interest, returning the record, whether one already existed for this
// face, and (if it did) its previous nonce.
func (e *basePitEntry) InsertInRecord(
	interest *defn.FwInterest, faceID uint64, pitToken []byte,
) (record *PitInRecord, alreadyExists bool, prevNonce uint32) {
	if e.inRecords == nil {
		e.inRecords = make(map[uint64]*PitInRecord)
	}
	now := time.Now()
	nonce := interest.NonceV.GetOr(0)

	existing, ok := e.inRecords[faceID]
	if ok {
		prevNonce = existing.LatestNonce
		existing.LatestNonce = nonce
		existing.LatestTimestamp = now
		existing.PitToken = pitToken
		existing.ExpirationTime = now.Add(interest.Lifetime())
		return existing, true, prevNonce
	}

	record = &PitInRecord{
		Face:            faceID,
		LatestNonce:     nonce,
		LatestTimestamp: now,
		PitToken:        pitToken,
		ExpirationTime:  now.Add(interest.Lifetime()),
	}
	e.inRecords[faceID] = record
	return record, false, 0
}

// InsertOutRecord creates or updates the upstream record for faceID.
func (e *basePitEntry) InsertOutRecord(interest *defn.FwInterest, faceID uint64) *PitOutRecord {
	if e.outRecords == nil {
		e.outRecords = make(map[uint64]*PitOutRecord)
	}
	now := time.Now()
	nonce := interest.NonceV.GetOr(0)

	if existing, ok := e.outRecords[faceID]; ok {
		existing.LatestNonce = nonce
		existing.LatestTimestamp = now
		existing.ExpirationTime = now.Add(interest.Lifetime())
		return existing
	}

	record := &PitOutRecord{
		Face:            faceID,
		LatestNonce:     nonce,
		LatestTimestamp: now,
		ExpirationTime:  now.Add(interest.Lifetime()),
	}
	e.outRecords[faceID] = record
	return record
}

// PitTable is the process-wide Pending Interest Table: one basePitEntry
// per (name, CanBePrefix, MustBeFresh) tuple that still has at least one
// outstanding downstream Interest.
type PitTable struct {
	tree    *NameTree
	nextToken uint32
}

// NewPitTable constructs a PIT sharing tree with the rest of the forwarding tables.
func NewPitTable(tree *NameTree) *PitTable {
	return &PitTable{tree: tree}
}

// FindOrInsert returns the PIT entry matching interest's (name,
// CanBePrefix, MustBeFresh) tuple, creating one if none exists, and
// reports whether it was newly created.
func (p *PitTable) FindOrInsert(interest *defn.FwInterest) (*basePitEntry, bool) {
	node := p.tree.findOrInsert(interest.NameV)
	for _, e := range node.pitEntries {
		if e.canBePrefix == interest.CanBePrefixV && e.mustBeFresh == interest.MustBeFreshV {
			return e, false
		}
	}
	p.nextToken++
	entry := &basePitEntry{
		encname:           interest.NameV,
		canBePrefix:       interest.CanBePrefixV,
		mustBeFresh:       interest.MustBeFreshV,
		forwardingHintNew: interest.ForwardingHintV,
		expirationTime:    time.Now().Add(interest.Lifetime()),
		token:             p.nextToken,
	}
	node.pitEntries = append(node.pitEntries, entry)
	return entry, true
}

// FindExactMatch returns the PIT entry for the literal (name, CanBePrefix,
// MustBeFresh) tuple the Interest carries, without prefix matching.
func (p *PitTable) FindExactMatch(interest *defn.FwInterest) *basePitEntry {
	node := p.tree.find(interest.NameV)
	if node == nil {
		return nil
	}
	for _, e := range node.pitEntries {
		if e.canBePrefix == interest.CanBePrefixV && e.mustBeFresh == interest.MustBeFreshV {
			return e
		}
	}
	return nil
}

// FindMatching returns every PIT entry that an incoming Data named name
// satisfies: an exact-name entry, plus (when data is fresh enough for it)
// every CanBePrefix entry at an ancestor name.
func (p *PitTable) FindMatching(name enc.Name, isFresh bool) []*basePitEntry {
	var out []*basePitEntry
	cur := p.tree.root
	for i := 0; i <= len(name); i++ {
		for _, e := range cur.pitEntries {
			if i == len(name) {
				if !e.mustBeFresh || isFresh {
					out = append(out, e)
				}
				continue
			}
			if e.canBePrefix && (!e.mustBeFresh || isFresh) {
				out = append(out, e)
			}
		}
		if i == len(name) {
			break
		}
		next, ok := cur.children[name[i].Hash()]
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// Remove deletes entry from the table, pruning its NameTree node and any
// ancestors left empty.
func (p *PitTable) Remove(entry PitEntry) {
	node := p.tree.find(entry.EncName())
	if node == nil {
		return
	}
	for i, e := range node.pitEntries {
		if PitEntry(e) == entry {
			node.pitEntries = append(node.pitEntries[:i], node.pitEntries[i+1:]...)
			break
		}
	}
	p.tree.prune(node)
}

// Size returns the number of PIT entries in the table.
func (p *PitTable) Size() int {
	n := 0
	var walk func(*nameTreeEntry)
	walk = func(e *nameTreeEntry) {
		n += len(e.pitEntries)
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(p.tree.root)
	return n
}

// Expired returns every PIT entry whose expiry is at or before now, for
// the Forwarder's periodic straggler sweep (onInterestFinalize).
func (p *PitTable) Expired(now time.Time) []PitEntry {
	var out []PitEntry
	var walk func(*nameTreeEntry)
	walk = func(e *nameTreeEntry) {
		for _, entry := range e.pitEntries {
			if !entry.expirationTime.After(now) {
				out = append(out, entry)
			}
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(p.tree.root)
	return out
}
