/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import "github.com/named-data/ndnd/fw/core"

// strategyInit holds a constructor per registered strategy implementation,
// appended to by each strategy's init() function.
var strategyInit []func() Strategy

// StrategyVersions maps a strategy's short program name to the versions
// of it that have been registered (e.g. "multicast" -> []uint64{1}).
var StrategyVersions = map[string][]uint64{}

// CfgNumThreads returns the number of forwarding threads the process
// runs. The concurrency model this core implements pins this to 1 (a
// single cooperative event loop) regardless of core.C.Fw.Threads, which
// exists only for config-shape parity with a sharded, multi-threaded build.
func CfgNumThreads() int {
	if core.C.Fw.Threads < 1 {
		return 1
	}
	return 1
}
