/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package cmd assembles the ndnd command-line entry point.
package cmd

import (
	"github.com/named-data/ndnd/fw/cmd"
	"github.com/named-data/ndnd/std/utils"
	"github.com/spf13/cobra"
)

// CmdNDNd is the root command for the ndnd binary; it groups every
// runnable component under a single CLI rather than shipping one binary
// per component.
var CmdNDNd = &cobra.Command{
	Use:     "ndnd",
	Short:   "Named Data Networking daemon",
	Version: utils.NDNdVersion,
}

func init() {
	CmdNDNd.AddGroup(&cobra.Group{ID: "run", Title: "Run commands:"})
	CmdNDNd.AddCommand(cmd.CmdYaNFD)
}
