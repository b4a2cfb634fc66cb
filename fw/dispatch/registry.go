/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package dispatch

import "sync"

var (
	threadsMutex sync.RWMutex
	threads      = map[int]FWThread{}
)

// RegisterFWThread installs t as the forwarding thread for id, replacing
// whatever was previously registered there. Called once per thread at
// startup, before any face begins delivering packets.
func RegisterFWThread(id int, t FWThread) {
	threadsMutex.Lock()
	defer threadsMutex.Unlock()
	threads[id] = t
}

// GetFWThread returns the forwarding thread registered for id, or nil if
// none has been registered yet.
func GetFWThread(id int) FWThread {
	threadsMutex.RLock()
	defer threadsMutex.RUnlock()
	return threads[id]
}

// HashNameToFwThread selects the thread responsible for name. With a
// single forwarding thread (see fw.CfgNumThreads) this always returns 0;
// kept so a future multi-threaded build only needs to change
// CfgNumThreads, not every call site that dispatches by name.
func HashNameToFwThread(nameHash uint64, numThreads int) int {
	if numThreads <= 1 {
		return 0
	}
	return int(nameHash % uint64(numThreads))
}
