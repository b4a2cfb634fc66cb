/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"context"
	"time"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/dispatch"
	"github.com/named-data/ndnd/fw/face"
	"github.com/named-data/ndnd/fw/table"
	enc "github.com/named-data/ndnd/std/encoding"
)

// StragglerTime is how long a PIT entry lingers after being satisfied,
// rejected, or expired before the sweep removes it. An Interest for the
// same (name, CanBePrefix, MustBeFresh) arriving in that window reuses
// the entry and adds a new in-record to it rather than creating a fresh
// entry.
const StragglerTime = 100 * time.Millisecond

// queueCap bounds how many packets may be waiting on a thread's ingress
// before further packets from faces are dropped; large enough to absorb a burst without
// indefinitely growing memory under sustained overload.
const queueCap = 1024

// Thread is the concrete forwarding core: a single cooperative event loop
// owning one FIB+StrategyChoice, one PIT, one Measurements table, and the
// Content Store (shared process-wide, per spec.md's single-thread model —
// see CfgNumThreads). It implements dispatch.FWThread so faces can queue
// packets onto it without importing package fw directly.
type Thread struct {
	threadID int

	interestQueue chan *defn.Pkt
	dataQueue     chan *defn.Pkt
	stop          chan struct{}

	fib          *table.FibStrategyTableStruct
	pit          *table.PitTable
	measurements *table.MeasurementsTable
	sched        *dispatch.Scheduler

	strategies map[string]Strategy

	counters dispatch.ThreadCounters
}

// NewThread constructs forwarding thread id, instantiating every strategy
// registered via strategyInit and sharing tree/config state with cfg.
func NewThread(id int, cfg *core.Config) *Thread {
	t := &Thread{
		threadID:      id,
		interestQueue: make(chan *defn.Pkt, queueCap),
		dataQueue:     make(chan *defn.Pkt, queueCap),
		stop:          make(chan struct{}),
		fib:           table.FibStrategyTable,
		pit:           table.NewPitTable(table.FibStrategyTable.Tree()),
		measurements:  table.NewMeasurementsTable(table.FibStrategyTable.Tree(), cfg.Tables.Measurements.Lifetime),
		sched:         dispatch.NewScheduler(),
		strategies:    make(map[string]Strategy),
	}

	for _, ctor := range strategyInit {
		s := ctor()
		s.Instantiate(t)
		named, ok := s.(interface {
			Name() string
			Version() uint64
		})
		if !ok {
			core.Log.Error(t, "Strategy does not expose its identity - skipping registration")
			continue
		}
		strategyName, err := defn.MakeStrategyName(named.Name())
		if err != nil {
			core.Log.Error(t, "Unable to build strategy name", "strategy", named.Name(), "err", err)
			continue
		}
		t.strategies[strategyName.String()] = s
	}

	return t
}

// ID returns this thread's identifier.
func (t *Thread) ID() int { return t.threadID }

// Counters returns a snapshot of this thread's packet counters.
func (t *Thread) Counters() dispatch.ThreadCounters {
	c := t.counters
	c.NPitEntries = t.pit.Size()
	c.NCsEntries = table.SystemContentStore.Size()
	c.NCsHits = table.SystemContentStore.Hits()
	c.NCsMisses = table.SystemContentStore.Misses()
	return c
}

// QueueInterest enqueues an incoming Interest for processing on the loop.
func (t *Thread) QueueInterest(pkt *defn.Pkt, faceId uint64) {
	pkt.IncomingFaceId.Set(faceId)
	select {
	case t.interestQueue <- pkt:
	default:
		core.Log.Warn(t, "Interest queue full - DROP", "name", pkt.Name)
	}
}

// QueueData enqueues an incoming Data packet for processing on the loop.
func (t *Thread) QueueData(pkt *defn.Pkt, faceId uint64) {
	pkt.IncomingFaceId.Set(faceId)
	select {
	case t.dataQueue <- pkt:
	default:
		core.Log.Warn(t, "Data queue full - DROP", "name", pkt.Name)
	}
}

// String identifies the thread for logging.
func (t *Thread) String() string {
	return "fw-thread"
}

// Run is the cooperative event loop: it drains the Interest/Data queues,
// sweeps expired PIT entries, and fires any strategy timer whose time has
// come, until ctx is cancelled or Stop is called. There is no locking:
// every table mutation below happens only on this goroutine (spec.md §5).
func (t *Thread) Run(ctx context.Context) {
	dispatch.RegisterFWThread(t.threadID, t)
	core.Log.Info(t, "Forwarding thread started", "id", t.threadID)

	sweep := time.NewTicker(StragglerTime)
	defer sweep.Stop()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case pkt := <-t.interestQueue:
			t.onIncomingInterest(pkt, pkt.IncomingFaceId.GetOr(0))
			t.rearmScheduler(timer)
		case pkt := <-t.dataQueue:
			t.onIncomingData(pkt, pkt.IncomingFaceId.GetOr(0))
			t.rearmScheduler(timer)
		case <-sweep.C:
			t.sweepExpiredPit()
		case <-timer.C:
			t.sched.RunDue(time.Now())
			t.rearmScheduler(timer)
		}
	}
}

// rearmScheduler resets timer to fire at the scheduler's next due event,
// or an hour out (effectively idle) if none is pending. It must only be
// called from the Run goroutine.
func (t *Thread) rearmScheduler(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	due, ok := t.sched.NextDue()
	if !ok {
		timer.Reset(time.Hour)
		return
	}
	if d := time.Until(due); d > 0 {
		timer.Reset(d)
	} else {
		timer.Reset(0)
	}
}

// Stop ends the event loop.
func (t *Thread) Stop() {
	close(t.stop)
}

func (t *Thread) strategyFor(name enc.Name) Strategy {
	if name != nil {
		if s, ok := t.strategies[name.String()]; ok {
			return s
		}
	}
	for _, s := range t.strategies {
		return s
	}
	return nil
}

// onIncomingInterest implements spec.md §4.1's first pipeline transition.
func (t *Thread) onIncomingInterest(pkt *defn.Pkt, inFace uint64) {
	t.counters.NInInterests++
	interest := pkt.L3.Interest
	name := interest.NameV

	inLs := face.FaceTable.Get(inFace)
	if defn.LOCAL_PREFIX.IsPrefix(name) && (inLs == nil || inLs.Scope() != defn.Local) {
		core.Log.Warn(t, "Interest violates /localhost scope - DROP", "name", name, "faceid", inFace)
		return
	}

	entry, isNew := t.pit.FindOrInsert(interest)
	nonce := interest.NonceV.GetOr(0)

	if !isNew {
		for _, r := range entry.InRecords() {
			if r.LatestNonce == nonce && r.Face != inFace {
				core.Log.Debug(t, "Interest loop detected - Nack=Duplicate", "name", name, "faceid", inFace)
				t.sendNack(pkt, inFace, defn.NackReasonDuplicate)
				return
			}
		}
		for _, r := range entry.OutRecords() {
			if r.LatestNonce == nonce && r.Face != inFace {
				core.Log.Debug(t, "Interest loop detected - Nack=Duplicate", "name", name, "faceid", inFace)
				t.sendNack(pkt, inFace, defn.NackReasonDuplicate)
				return
			}
		}
	}

	if csEntry := table.SystemContentStore.Find(name, interest.CanBePrefixV, interest.MustBeFreshV, time.Now()); csEntry != nil {
		data, wire, err := csEntry.Copy()
		if err == nil {
			hit := &defn.Pkt{Name: data.NameV, Wire: wire, L3: defn.L3Pkt{Data: data}}
			stratName := t.fib.FindStrategyEnc(name)
			t.strategyFor(stratName).AfterContentStoreHit(hit, entry, inFace)
		}
		if isNew {
			t.pit.Remove(entry)
		}
		return
	}

	entry.InsertInRecord(interest, inFace, pkt.PitToken)

	nexthops := t.fib.FindNextHopsEnc(name)
	stratName := t.fib.FindStrategyEnc(name)
	strat := t.strategyFor(stratName)
	if strat == nil {
		core.Log.Error(t, "No strategy installed for name - DROP", "name", name)
		return
	}
	strat.AfterReceiveInterest(pkt, entry, inFace, nexthops)
}

// sendNack answers pkt's Interest with a Nack carrying reason, sent back
// to outFace (the downstream face the Interest arrived from). No PIT
// state is created or modified by this send.
func (t *Thread) sendNack(pkt *defn.Pkt, outFace uint64, reason defn.NackReason) {
	ls := face.FaceTable.Get(outFace)
	if ls == nil {
		core.Log.Warn(t, "Cannot send Nack to unknown face", "faceid", outFace)
		return
	}
	ls.SendPacket(pkt.AsNack(reason))
	t.counters.NOutNacks++
}

// onOutgoingInterest implements spec.md §4.1's second transition. It is
// invoked only via StrategyBase.SendInterest.
func (t *Thread) onOutgoingInterest(pkt *defn.Pkt, pitEntry table.PitEntry, outFace uint64) {
	pitEntry.InsertOutRecord(pkt.L3.Interest, outFace)

	ls := face.FaceTable.Get(outFace)
	if ls == nil {
		core.Log.Warn(t, "Cannot forward Interest to unknown face", "faceid", outFace)
		return
	}
	ls.SendPacket(pkt)
	t.counters.NOutInterests++
}

// onInterestReject implements spec.md §4.1's third transition: the entry
// is given up on by its strategy and moved to straggler expiry.
func (t *Thread) onInterestReject(pitEntry table.PitEntry) {
	pitEntry.SetExpirationTime(time.Now().Add(StragglerTime))
}

// onIncomingData implements spec.md §4.1's fourth transition.
func (t *Thread) onIncomingData(pkt *defn.Pkt, inFace uint64) {
	t.counters.NInData++
	data := pkt.L3.Data
	name := data.NameV

	inLs := face.FaceTable.Get(inFace)
	if defn.LOCAL_PREFIX.IsPrefix(name) && (inLs == nil || inLs.Scope() != defn.Local) {
		core.Log.Warn(t, "Data violates /localhost scope - DROP", "name", name, "faceid", inFace)
		return
	}

	now := time.Now()
	isFresh := false
	if fp, ok := data.FreshnessPeriodV.Get(); ok {
		isFresh = fp > 0
	}

	matches := t.pit.FindMatching(name, isFresh)
	if len(matches) == 0 {
		if table.SystemContentStore.Admit() {
			table.SystemContentStore.Insert(data, wireOf(pkt))
		}
		core.Log.Debug(t, "Unsolicited Data - not satisfying any Interest", "name", name)
		return
	}

	table.SystemContentStore.Insert(data, wireOf(pkt))

	for _, entry := range matches {
		stratName := t.fib.FindStrategyEnc(entry.EncName())
		strat := t.strategyFor(stratName)
		if strat == nil {
			continue
		}
		strat.BeforeSatisfyInterest(entry, inFace)
		strat.AfterReceiveData(pkt, entry, inFace)

		entry.SetSatisfied(true)
		entry.ClearInRecords()
		entry.ClearOutRecords()
		entry.SetExpirationTime(now.Add(StragglerTime))
		t.counters.NSatisfiedInterests++
	}
}

// onOutgoingData implements spec.md §4.1's fifth transition. It is
// invoked only via StrategyBase.SendData.
func (t *Thread) onOutgoingData(pkt *defn.Pkt, outFace uint64) {
	ls := face.FaceTable.Get(outFace)
	if ls == nil {
		core.Log.Warn(t, "Cannot forward Data to unknown face", "faceid", outFace)
		return
	}
	ls.SendPacket(pkt)
	t.counters.NOutData++
}

// onInterestFinalize implements spec.md §4.1's sixth transition, invoked
// by sweepExpiredPit once a PIT entry's expiry has passed.
func (t *Thread) onInterestFinalize(pitEntry table.PitEntry) {
	if !pitEntry.Satisfied() {
		stratName := t.fib.FindStrategyEnc(pitEntry.EncName())
		if strat := t.strategyFor(stratName); strat != nil {
			strat.BeforeExpireInterest(pitEntry)
		}
		t.counters.NUnsatisfiedInterests++
	}
	t.pit.Remove(pitEntry)
}

// sweepExpiredPit finalizes every PIT entry whose expiry has passed. PIT
// expiry uses a fixed-period sweep rather than a per-entry Scheduler event,
// since the sweep interval already bounds staleness to StragglerTime and a
// PIT can hold far more entries than are worth arming individual timers for.
func (t *Thread) sweepExpiredPit() {
	for _, entry := range t.pit.Expired(time.Now()) {
		t.onInterestFinalize(entry)
	}
}

// wireOf returns pkt's wire encoding, encoding it fresh if it arrived
// without one (e.g. synthesized from the Content Store).
func wireOf(pkt *defn.Pkt) enc.Wire {
	if pkt.Wire != nil {
		return pkt.Wire
	}
	return defn.EncodePkt(pkt)
}
