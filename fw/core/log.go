/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"time"

	"github.com/named-data/ndnd/std/log"
)

// Log is the process-wide logger every subsystem logs against. It starts
// at INFO and is replaced once a Config's LogLevel is known.
var Log = log.Log

// StartTimestamp records when this process began running, used to compute
// forwarder-status uptime.
var StartTimestamp = time.Now()

// ConfigureLogger applies cfg's log level to the process-wide logger.
func ConfigureLogger(cfg *Config) {
	level, err := log.ParseLevel(cfg.Core.LogLevel)
	if err != nil {
		level = log.LevelInfo
	}
	log.SetLevel(level)
	Log = log.Log
}
