/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

// C is the process-wide configuration, set once by fw/cmd at startup.
// Face and transport code reads it directly (e.g. core.C.Faces.Udp.DefaultMtu)
// rather than threading a Config through every constructor.
var C = DefaultConfig()

// ShouldQuit is set by the shutdown signal handler; accept-loop goroutines
// in fw/face poll it between iterations to exit cleanly.
var ShouldQuit = false
