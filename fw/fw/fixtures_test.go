package fw

import (
	"testing"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/dispatch"
	"github.com/named-data/ndnd/fw/table"
	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/named-data/ndnd/std/types/optional"
)

// newTestThread builds a Thread isolated from the process-wide FIB+
// StrategyChoice singleton's accumulated state: the PIT, Measurements, and
// FIB+StrategyChoice tables all get their own fresh NameTree (nexthops are
// still passed directly to AfterReceiveInterest rather than looked up in
// the FIB, but the FIB+StrategyChoice table itself is real, since
// MeasurementsAccessor gates every access through it).
func newTestThread() *Thread {
	tree := table.NewNameTree()
	return &Thread{
		threadID:     0,
		pit:          table.NewPitTable(tree),
		measurements: table.NewMeasurementsTable(tree, core.DefaultConfig().Tables.Measurements.Lifetime),
		fib:          table.NewFibStrategyTable(tree),
		sched:        dispatch.NewScheduler(),
		strategies:   make(map[string]Strategy),
	}
}

// instantiate binds s to th and assigns it as the root's sole
// StrategyChoice governor, so s.Measurements() calls are not gated out by
// the FIB+StrategyChoice check.
func instantiate(th *Thread, s Strategy) {
	s.Instantiate(th)
	strategyName, err := defn.MakeStrategyName(s.(interface{ Name() string }).Name())
	if err != nil {
		panic(err)
	}
	th.fib.SetStrategyEnc(enc.Name{}, strategyName)
}

func testInterest(name string) *defn.FwInterest {
	n, err := enc.NameFromStr(name)
	if err != nil {
		panic(err)
	}
	return &defn.FwInterest{
		NameV:  n,
		NonceV: optional.Some(uint32(1)),
	}
}

func testPkt(interest *defn.FwInterest) *defn.Pkt {
	return &defn.Pkt{
		Name: interest.NameV,
		L3:   defn.L3Pkt{Interest: interest},
	}
}

func newPitEntry(th *Thread, interest *defn.FwInterest) table.PitEntry {
	entry, _ := th.pit.FindOrInsert(interest)
	return entry
}

func nexthops(faceIDs ...uint64) []*table.FibNextHopEntry {
	out := make([]*table.FibNextHopEntry, len(faceIDs))
	for i, id := range faceIDs {
		out[i] = &table.FibNextHopEntry{Nexthop: id, Cost: uint64(i)}
	}
	return out
}

// newPipelineThread builds a Thread with every registered strategy bound
// to it (as newTestThread does) plus its own isolated Content Store
// installed as table.SystemContentStore, so a test can drive
// onIncomingInterest/onIncomingData directly instead of calling a
// strategy's methods in isolation.
func newPipelineThread(csCapacity int) *Thread {
	tree := table.NewNameTree()
	table.SystemContentStore = table.NewContentStore(tree, csCapacity)
	th := &Thread{
		threadID:     0,
		pit:          table.NewPitTable(tree),
		measurements: table.NewMeasurementsTable(tree, core.DefaultConfig().Tables.Measurements.Lifetime),
		fib:          table.NewFibStrategyTable(tree),
		sched:        dispatch.NewScheduler(),
		strategies:   make(map[string]Strategy),
	}
	for _, ctor := range strategyInit {
		s := ctor()
		s.Instantiate(th)
		named := s.(interface{ Name() string })
		strategyName, err := defn.MakeStrategyName(named.Name())
		if err != nil {
			panic(err)
		}
		th.strategies[strategyName.String()] = s
	}
	return th
}

// setRootStrategy assigns programName as the root ("/") StrategyChoice
// governor of th's FIB.
func setRootStrategy(th *Thread, programName string) {
	setStrategyAt(th, enc.Name{}, programName)
}

// setStrategyAt assigns programName as the StrategyChoice governor of name
// in th's FIB.
func setStrategyAt(th *Thread, name enc.Name, programName string) {
	strategyName, err := defn.MakeStrategyName(programName)
	if err != nil {
		panic(err)
	}
	th.fib.SetStrategyEnc(name, strategyName)
}

func mustPipelineName(t *testing.T, s string) enc.Name {
	n, err := enc.NameFromStr(s)
	if err != nil {
		t.Fatalf("invalid test name %q: %v", s, err)
	}
	return n
}

// lookupStrategy returns th's registered strategy instance for programName.
func lookupStrategy(t *testing.T, th *Thread, programName string) Strategy {
	strategyName, err := defn.MakeStrategyName(programName)
	if err != nil {
		t.Fatalf("invalid strategy name %q: %v", programName, err)
	}
	s, ok := th.strategies[strategyName.String()]
	if !ok {
		t.Fatalf("strategy %q not registered", programName)
	}
	return s
}
