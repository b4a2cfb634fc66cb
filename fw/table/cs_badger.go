/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"container/list"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
)

// badgerCsBackend is the persistent Content Store backend: an LRU index
// identical to lruCsBackend for eviction ordering, mirrored into a badger
// key-value store so the cache survives a process restart. The spec
// leaves CS persistence as an open question; this is the opt-in answer
// (tables.content_store.backend: badger), off by default.
type badgerCsBackend struct {
	capacity int
	ll       *list.List
	index    map[uint64]*list.Element
	db       *badger.DB
}

// newBadgerCsBackend opens (or creates) a badger database at dir.
func newBadgerCsBackend(dir string, capacity int) (*badgerCsBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerCsBackend{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[uint64]*list.Element),
		db:       db,
	}, nil
}

func badgerKey(key uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, key)
	return b
}

func encodeCsRecord(entry *baseCsEntry) []byte {
	wire := entry.wire.Join()
	buf := make([]byte, 8+len(wire))
	binary.BigEndian.PutUint64(buf[:8], uint64(entry.staleTime.UnixNano()))
	copy(buf[8:], wire)
	return buf
}

func decodeCsRecord(key uint64, buf []byte) *baseCsEntry {
	if len(buf) < 8 {
		return nil
	}
	staleNano := int64(binary.BigEndian.Uint64(buf[:8]))
	wire := append([]byte{}, buf[8:]...)
	return &baseCsEntry{index: key, staleTime: time.Unix(0, staleNano), wire: [][]byte{wire}}
}

func (b *badgerCsBackend) put(key uint64, entry *baseCsEntry) {
	if el, ok := b.index[key]; ok {
		el.Value.(*lruElem).entry = entry
		b.ll.MoveToFront(el)
	} else {
		el := b.ll.PushFront(&lruElem{key: key, entry: entry})
		b.index[key] = el
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), encodeCsRecord(entry))
	})
	if err != nil {
		core.Log.Warn(b, "Failed to persist CS entry", "err", err)
	}
}

func (b *badgerCsBackend) get(key uint64) (*baseCsEntry, bool) {
	el, ok := b.index[key]
	if !ok {
		return nil, false
	}
	return el.Value.(*lruElem).entry, true
}

func (b *badgerCsBackend) touch(key uint64) {
	if el, ok := b.index[key]; ok {
		b.ll.MoveToFront(el)
	}
}

func (b *badgerCsBackend) remove(key uint64) {
	if el, ok := b.index[key]; ok {
		b.ll.Remove(el)
		delete(b.index, key)
	}
	if err := b.db.Update(func(txn *badger.Txn) error { return txn.Delete(badgerKey(key)) }); err != nil {
		core.Log.Warn(b, "Failed to delete persisted CS entry", "err", err)
	}
}

func (b *badgerCsBackend) len() int { return b.ll.Len() }

func (b *badgerCsBackend) evictIfNeeded() (uint64, bool) {
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
	if err := b.db.Update(func(txn *badger.Txn) error { return txn.Delete(badgerKey(key)) }); err != nil {
		core.Log.Warn(b, "Failed to delete evicted CS entry", "err", err)
	}
	return key, true
}

// String identifies this backend in log lines.
func (b *badgerCsBackend) String() string { return "badger-cs" }

// Close releases the underlying badger database.
func (b *badgerCsBackend) Close() error { return b.db.Close() }

// NewBadgerContentStore opens a persistent ContentStore at dir and
// repopulates its NameTree from whatever was cached on a previous run.
func NewBadgerContentStore(tree *NameTree, dir string, capacity int) (*ContentStore, error) {
	backend, err := newBadgerCsBackend(dir, capacity)
	if err != nil {
		return nil, err
	}
	cs := NewContentStoreWithBackend(tree, backend)

	err = backend.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := binary.BigEndian.Uint64(item.Key())
			err := item.Value(func(val []byte) error {
				entry := decodeCsRecord(key, val)
				if entry == nil {
					return nil
				}
				pkt, err := defn.DecodePkt(entry.wire.Join())
				if err != nil {
					return nil
				}
				node := tree.findOrInsert(pkt.Name)
				node.csEntries = append(node.csEntries, entry)
				el := backend.ll.PushBack(&lruElem{key: key, entry: entry})
				backend.index[key] = el
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}
