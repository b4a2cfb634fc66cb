/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import "errors"

// ErrNotCanonical is returned when a face URI is not in canonical form
// (e.g. a hostname instead of a resolved IP, or a missing port).
var ErrNotCanonical = errors.New("URI could not be canonicalized")

// ErrFaceExists is returned when attempting to register a face for a
// remote/local URI pair that already has an active face.
var ErrFaceExists = errors.New("face already exists for this URI pair")
