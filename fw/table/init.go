/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
)

// InitTables wires up the process-wide FIB+StrategyChoice table's root
// strategy and the Content Store backend, per cfg. It must run once
// before any forwarding thread starts.
func InitTables(cfg *core.Config) {
	strategyName, err := defn.MakeStrategyName(cfg.Fw.DefaultStrategy)
	if err == nil {
		FibStrategyTable.SetStrategyEnc(nil, strategyName)
	}

	csCfg := cfg.Tables.ContentStore
	if csCfg.Backend == "badger" && csCfg.BadgerDir != "" {
		cs, err := NewBadgerContentStore(FibStrategyTable.Tree(), csCfg.BadgerDir, csCfg.Capacity)
		if err != nil {
			core.Log.Fatal("table", "Unable to open badger content store", "err", err)
		}
		SystemContentStore = cs
	} else {
		SystemContentStore = NewContentStore(FibStrategyTable.Tree(), csCfg.Capacity)
	}
	SystemContentStore.SetAdmit(csCfg.Admit)
	SystemContentStore.SetServe(csCfg.Serve)
}
