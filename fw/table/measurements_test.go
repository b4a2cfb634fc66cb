package table

import (
	"testing"
	"time"

	enc "github.com/named-data/ndnd/std/encoding"
	"github.com/stretchr/testify/assert"
)

func mustName(t *testing.T, s string) enc.Name {
	n, err := enc.NameFromStr(s)
	assert.NoError(t, err)
	return n
}

// An accessor only ever sees an entry for a name currently governed by
// its own strategy: reassigning /x to a different strategy denies the
// old accessor going forward, independent of who wrote the data, per
// measurements-accessor.cpp.
func TestMeasurementsAccessorDeniesReassignedStrategy(t *testing.T) {
	tree := NewNameTree()
	mtab := NewMeasurementsTable(tree, time.Minute)
	fib := newFibStrategyTable()

	strategyA := mustName(t, "/strategy-a")
	strategyB := mustName(t, "/strategy-b")
	fib.SetStrategyEnc(mustName(t, "/"), strategyA)

	a := NewMeasurementsAccessor(mtab, fib, strategyA)
	b := NewMeasurementsAccessor(mtab, fib, strategyB)

	a.Set(mustName(t, "/x/y"), "from-a")
	v, ok := a.Get(mustName(t, "/x/y"))
	assert.True(t, ok)
	assert.Equal(t, "from-a", v)

	_, ok = b.Get(mustName(t, "/x/y"))
	assert.False(t, ok, "strategy-b must not see an entry under a name it doesn't govern")

	// Reassigning /x to strategy-b denies strategy-a's accessor from here
	// down, even though strategy-a is the one that wrote the entry.
	fib.SetStrategyEnc(mustName(t, "/x"), strategyB)
	_, ok = a.Get(mustName(t, "/x/y"))
	assert.False(t, ok, "strategy-a must be denied once /x is reassigned to strategy-b")

	b.Set(mustName(t, "/x/y"), "from-b")
	v, ok = b.Get(mustName(t, "/x/y"))
	assert.True(t, ok)
	assert.Equal(t, "from-b", v)
}

// FindLongestPrefixMatch walks up from name to the deepest live ancestor
// still governed by the accessor's strategy, and stops at the root
// rather than climbing past it.
func TestMeasurementsAccessorFindLongestPrefixMatchStopsAtBoundary(t *testing.T) {
	tree := NewNameTree()
	mtab := NewMeasurementsTable(tree, time.Minute)
	fib := newFibStrategyTable()
	strategyA := mustName(t, "/strategy-a")
	fib.SetStrategyEnc(mustName(t, "/"), strategyA)
	a := NewMeasurementsAccessor(mtab, fib, strategyA)

	a.Set(mustName(t, "/x"), "at-x")

	v, ok := a.FindLongestPrefixMatch(mustName(t, "/x/y"))
	assert.True(t, ok)
	assert.Equal(t, "at-x", v)

	// /x itself is the entry, not a parent walk.
	v, ok = a.FindLongestPrefixMatch(mustName(t, "/x"))
	assert.True(t, ok)
	assert.Equal(t, "at-x", v)

	// Nothing is set at or above the root of an unrelated name: the walk
	// reaches the root and finds no entry, rather than panicking or
	// fabricating one.
	_, ok = a.FindLongestPrefixMatch(mustName(t, "/z/w"))
	assert.False(t, ok, "expected no match when no ancestor has a live entry")
}

// An entry past its lifetime is treated as absent and pruned from the
// tree on next lookup, rather than returned stale.
func TestMeasurementsEntryExpires(t *testing.T) {
	tree := NewNameTree()
	mtab := NewMeasurementsTable(tree, time.Minute)
	fib := newFibStrategyTable()
	strategyA := mustName(t, "/strategy-a")
	fib.SetStrategyEnc(mustName(t, "/"), strategyA)
	a := NewMeasurementsAccessor(mtab, fib, strategyA)

	name := mustName(t, "/x/y")
	a.Set(name, "stale")

	node := tree.find(name)
	assert.NotNil(t, node)
	node.measurementsEntry.expiration = time.Now().Add(-time.Second)

	_, ok := a.Get(name)
	assert.False(t, ok, "expired entry must not be returned")
}

// ExtendLifetime only ever grows an entry's expiry: a later call with a
// shorter duration must not pull the expiry back in.
func TestMeasurementsTableExtendLifetimeNeverShortens(t *testing.T) {
	tree := NewNameTree()
	mtab := NewMeasurementsTable(tree, time.Minute)
	name := mustName(t, "/x/y")

	mtab.ExtendLifetime(name, 30*time.Second)
	node := tree.find(name)
	assert.NotNil(t, node)
	longExpiry := node.measurementsEntry.expiration

	mtab.ExtendLifetime(name, time.Second)
	assert.Equal(t, longExpiry, node.measurementsEntry.expiration,
		"a shorter extension must not shorten the existing expiry")

	mtab.ExtendLifetime(name, time.Minute)
	assert.True(t, node.measurementsEntry.expiration.After(longExpiry),
		"a longer extension must push the expiry further out")
}

// An accessor's ExtendLifetime is a no-op for a name it doesn't govern:
// it must not create an entry at all.
func TestMeasurementsAccessorExtendLifetimeDeniedWhenNotGoverning(t *testing.T) {
	tree := NewNameTree()
	mtab := NewMeasurementsTable(tree, time.Minute)
	fib := newFibStrategyTable()
	strategyA := mustName(t, "/strategy-a")
	strategyB := mustName(t, "/strategy-b")
	fib.SetStrategyEnc(mustName(t, "/"), strategyB)

	a := NewMeasurementsAccessor(mtab, fib, strategyA)
	name := mustName(t, "/x/y")
	a.ExtendLifetime(name, time.Minute)

	assert.Nil(t, tree.find(name), "ExtendLifetime must be a no-op for a name this strategy doesn't govern")
}
