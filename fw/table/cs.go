/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"container/list"
	"time"

	"github.com/named-data/ndnd/fw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
)

// baseCsEntry is one cached Data packet.
type baseCsEntry struct {
	index     uint64
	staleTime time.Time
	wire      enc.Wire
}

// Index returns the entry's lookup key (the cached Data's name hash).
func (e *baseCsEntry) Index() uint64 { return e.index }

// StaleTime returns when this cached Data stops satisfying MustBeFresh Interests.
func (e *baseCsEntry) StaleTime() time.Time { return e.staleTime }

// Copy decodes the entry's stored wire back into a FwData, for a strategy
// or the pipeline to act on without mutating the cached copy.
func (e *baseCsEntry) Copy() (*defn.FwData, enc.Wire, error) {
	pkt, err := defn.DecodePkt(e.wire.Join())
	if err != nil {
		return nil, nil, err
	}
	return pkt.L3.Data, e.wire, nil
}

// csBackend is the pluggable storage strategy behind the Content Store.
// The spec leaves the CS eviction/persistence policy open; this forwarder
// ships two: an in-memory LRU (the default) and a badger-backed
// persistent store for deployments that want cache survival across restarts.
type csBackend interface {
	put(key uint64, entry *baseCsEntry)
	get(key uint64) (*baseCsEntry, bool)
	remove(key uint64)
	touch(key uint64)
	len() int
	evictIfNeeded() (evictedKey uint64, evicted bool)
}

// ContentStore caches Data for the forwarder, keyed by name hash, with CS
// hits walked through the NameTree so CanBePrefix lookups can find Data
// named anywhere below the Interest's name.
type ContentStore struct {
	tree    *NameTree
	backend csBackend
	admit   bool
	serve   bool

	nHits   uint64
	nMisses uint64
}

// NewContentStore constructs a ContentStore of the given capacity, backed
// by an in-memory LRU, sharing tree with the rest of the forwarding tables.
func NewContentStore(tree *NameTree, capacity int) *ContentStore {
	return &ContentStore{
		tree:    tree,
		backend: newLRUCsBackend(capacity),
		admit:   true,
		serve:   true,
	}
}

// NewContentStoreWithBackend constructs a ContentStore using an
// already-built backend, e.g. a badger-backed one.
func NewContentStoreWithBackend(tree *NameTree, backend csBackend) *ContentStore {
	return &ContentStore{tree: tree, backend: backend, admit: true, serve: true}
}

// SetAdmit controls whether incoming Data is cached.
func (c *ContentStore) SetAdmit(v bool) { c.admit = v }

// SetServe controls whether cache hits satisfy incoming Interests.
func (c *ContentStore) SetServe(v bool) { c.serve = v }

// Admit reports whether incoming Data is currently cached.
func (c *ContentStore) Admit() bool { return c.admit }

// Serve reports whether cache hits currently satisfy incoming Interests.
func (c *ContentStore) Serve() bool { return c.serve }

// Insert admits data into the cache, evicting the backend's chosen victim
// if it is at capacity. A no-op if Admit is false.
func (c *ContentStore) Insert(data *defn.FwData, wire enc.Wire) {
	if !c.admit {
		return
	}
	key := data.NameV.Hash()
	node := c.tree.findOrInsert(data.NameV)

	var staleTime time.Time
	if fp, ok := data.FreshnessPeriodV.Get(); ok {
		staleTime = time.Now().Add(fp)
	}
	entry := &baseCsEntry{index: key, staleTime: staleTime, wire: wire}

	if _, existed := c.backend.get(key); !existed {
		node.csEntries = append(node.csEntries, entry)
	} else {
		for i, e := range node.csEntries {
			if e.index == key {
				node.csEntries[i] = entry
			}
		}
	}
	c.backend.put(key, entry)

	if evictedKey, ok := c.backend.evictIfNeeded(); ok {
		c.removeByKey(evictedKey)
	}
}

func (c *ContentStore) removeByKey(key uint64) {
	var walk func(*nameTreeEntry) bool
	walk = func(e *nameTreeEntry) bool {
		for i, ce := range e.csEntries {
			if ce.index == key {
				e.csEntries = append(e.csEntries[:i], e.csEntries[i+1:]...)
				c.tree.prune(e)
				return true
			}
		}
		for _, child := range e.children {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(c.tree.root)
}

// Find looks up name per canBePrefix/mustBeFresh and returns the matching
// entry, or nil on a miss. A no-op search (always a miss) if Serve is false.
func (c *ContentStore) Find(name enc.Name, canBePrefix bool, mustBeFresh bool, now time.Time) *baseCsEntry {
	if !c.serve {
		return nil
	}

	node := c.tree.find(name)
	if node == nil {
		c.nMisses++
		return nil
	}

	if entry := firstFresh(node.csEntries, mustBeFresh, now); entry != nil {
		c.backend.touch(entry.index)
		c.nHits++
		return entry
	}

	if canBePrefix {
		if entry := c.findBelow(node, mustBeFresh, now); entry != nil {
			c.backend.touch(entry.index)
			c.nHits++
			return entry
		}
	}

	c.nMisses++
	return nil
}

func (c *ContentStore) findBelow(node *nameTreeEntry, mustBeFresh bool, now time.Time) *baseCsEntry {
	for _, child := range node.children {
		if entry := firstFresh(child.csEntries, mustBeFresh, now); entry != nil {
			return entry
		}
		if entry := c.findBelow(child, mustBeFresh, now); entry != nil {
			return entry
		}
	}
	return nil
}

func firstFresh(entries []*baseCsEntry, mustBeFresh bool, now time.Time) *baseCsEntry {
	for _, e := range entries {
		if !mustBeFresh || now.Before(e.staleTime) {
			return e
		}
	}
	return nil
}

// Size returns the number of Data packets currently cached.
func (c *ContentStore) Size() int { return c.backend.len() }

// Hits returns the lifetime count of CS lookups that were satisfied.
func (c *ContentStore) Hits() uint64 { return c.nHits }

// Misses returns the lifetime count of CS lookups that were not satisfied.
func (c *ContentStore) Misses() uint64 { return c.nMisses }

// lruCsBackend is the default in-memory backend: a doubly-linked list in
// recency order plus a hash index, giving O(1) get/put/evict.
type lruCsBackend struct {
	capacity int
	ll       *list.List
	index    map[uint64]*list.Element
}

type lruElem struct {
	key   uint64
	entry *baseCsEntry
}

func newLRUCsBackend(capacity int) *lruCsBackend {
	return &lruCsBackend{capacity: capacity, ll: list.New(), index: make(map[uint64]*list.Element)}
}

func (b *lruCsBackend) put(key uint64, entry *baseCsEntry) {
	if el, ok := b.index[key]; ok {
		el.Value.(*lruElem).entry = entry
		b.ll.MoveToFront(el)
		return
	}
	el := b.ll.PushFront(&lruElem{key: key, entry: entry})
	b.index[key] = el
}

func (b *lruCsBackend) get(key uint64) (*baseCsEntry, bool) {
	el, ok := b.index[key]
	if !ok {
		return nil, false
	}
	return el.Value.(*lruElem).entry, true
}

func (b *lruCsBackend) touch(key uint64) {
	if el, ok := b.index[key]; ok {
		b.ll.MoveToFront(el)
	}
}

func (b *lruCsBackend) remove(key uint64) {
	if el, ok := b.index[key]; ok {
		b.ll.Remove(el)
		delete(b.index, key)
	}
}

func (b *lruCsBackend) len() int { return b.ll.Len() }

func (b *lruCsBackend) evictIfNeeded() (uint64, bool) {
	if b.capacity <= 0 || b.ll.Len() <= b.capacity {
		return 0, false
	}
	back := b.ll.Back()
	if back == nil {
		return 0, false
	}
	key := back.Value.(*lruElem).key
	b.ll.Remove(back)
	delete(b.index, key)
	return key, true
}
