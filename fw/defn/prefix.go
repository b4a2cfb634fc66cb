/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import enc "github.com/named-data/ndnd/std/encoding"

// LOCAL_PREFIX is the /localhost prefix reserved for this forwarder's own
// management and introspection names; Interests under it are only ever
// accepted from a Local-scoped face.
var LOCAL_PREFIX = enc.Name{enc.LOCALHOST}

// LOCALHOP_PREFIX is the /localhop prefix, forwardable one hop beyond the
// originating face but never past that.
var LOCALHOP_PREFIX = enc.Name{enc.LOCALHOP}

// STRATEGY_PREFIX is the /localhost/nfd/strategy prefix under which
// forwarding strategies are named, e.g.
// /localhost/nfd/strategy/multicast/v=1.
var STRATEGY_PREFIX = LOCAL_PREFIX.Append(
	enc.NewStringComponent(enc.TypeGenericNameComponent, "nfd"),
	enc.NewStringComponent(enc.TypeGenericNameComponent, "strategy"),
)

// MakeStrategyName builds the canonical name of version 1 of the named
// strategy, e.g. MakeStrategyName("best-route") ->
// /localhost/nfd/strategy/best-route/v=1.
func MakeStrategyName(shortName string) (enc.Name, error) {
	return STRATEGY_PREFIX.Append(
		enc.NewGenericComponent(shortName),
		enc.NewVersionComponent(1),
	), nil
}
