/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"time"

	"github.com/named-data/ndnd/fw/core"
)

// CfgUDPUnicastPort returns the local port a unicast UDP transport binds
// to when no explicit local URI is given.
func CfgUDPUnicastPort() int {
	return int(core.C.Faces.Udp.PortUnicast)
}

// CfgUDPMulticastPort returns the UDP multicast group port.
func CfgUDPMulticastPort() uint16 {
	return core.C.Faces.Udp.PortMulticast
}

// CfgUDP4MulticastAddress returns the IPv4 multicast group address.
func CfgUDP4MulticastAddress() string {
	return core.C.Faces.Udp.MulticastAddressV4
}

// CfgUDP6MulticastAddress returns the IPv6 multicast group address.
func CfgUDP6MulticastAddress() string {
	return core.C.Faces.Udp.MulticastAddressV6
}

// CfgUDPLifetime returns how long an on-demand UDP face is kept alive
// after its last activity before being closed as idle.
func CfgUDPLifetime() time.Duration {
	return core.C.Faces.Udp.Lifetime
}
