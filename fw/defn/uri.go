/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// URI represents a face endpoint as scheme://path[:port], e.g.
// udp4://192.0.2.1:6363 or unix:///run/ndnd/ndnd.sock. It is the common
// address type threaded through face construction, transport dialing,
// and FIB nexthop configuration.
type URI struct {
	scheme string
	path   string
	port   uint16
}

// Returns the URI's scheme (e.g. "udp4", "tcp6", "unix", "ether", "fd", "null").
func (u *URI) Scheme() string { return u.scheme }

// Returns the URI's path component (a host, a filesystem path, or a MAC address).
func (u *URI) Path() string { return u.path }

// PathHost returns Path bracketed for use in a host:port pair if it
// looks like an IPv6 address (i.e. contains a colon); otherwise Path unchanged.
func (u *URI) PathHost() string {
	if strings.Contains(u.path, ":") {
		return "[" + u.path + "]"
	}
	return u.path
}

// Returns the URI's port, or 0 if the scheme has none.
func (u *URI) Port() uint16 { return u.port }

// PathZone returns the IPv6 zone identifier embedded in Path (the part
// after a "%"), or "" if Path carries none.
func (u *URI) PathZone() string {
	if i := strings.IndexByte(u.path, '%'); i >= 0 {
		return u.path[i+1:]
	}
	return ""
}

// String formats the URI back to scheme://path[:port] form.
func (u *URI) String() string {
	switch u.scheme {
	case "udp4", "tcp4", "udp6", "tcp6", "ws", "wss", "quic":
		return fmt.Sprintf("%s://%s:%d", u.scheme, u.PathHost(), u.port)
	case "unix", "ether", "fd", "dev":
		return fmt.Sprintf("%s://%s", u.scheme, u.path)
	case "null":
		return "null://"
	default:
		return fmt.Sprintf("%s://%s", u.scheme, u.path)
	}
}

// IsCanonical reports whether the URI is in the fully-resolved form a
// transport can dial directly: a numeric IP for udp4/udp6/tcp4/tcp6
// with a nonzero port, a non-empty path for unix/fd, a parseable MAC
// address for ether, or the bare null scheme.
func (u *URI) IsCanonical() bool {
	switch u.scheme {
	case "udp4", "tcp4":
		ip := net.ParseIP(u.path)
		return ip != nil && ip.To4() != nil && u.port != 0
	case "udp6", "tcp6":
		ip := net.ParseIP(u.path)
		return ip != nil && ip.To4() == nil && u.port != 0
	case "unix", "fd":
		return u.path != ""
	case "ether":
		_, err := net.ParseMAC(u.path)
		return err == nil
	case "null":
		return true
	case "ws", "wss", "quic":
		return u.path != "" && u.port != 0
	default:
		return false
	}
}

// Canonize resolves a udp4/udp6/tcp4/tcp6 URI's path to a numeric IP in
// place when it is currently a hostname, so that subsequent IsCanonical
// checks and dials see the canonical form. It is a no-op for schemes
// IsCanonical doesn't validate by IP (unix, ether, fd, null, ws, quic).
func (u *URI) Canonize() {
	switch u.scheme {
	case "udp4", "tcp4", "udp6", "tcp6":
		if net.ParseIP(u.path) != nil {
			return
		}
		ips, err := net.LookupIP(u.path)
		if err != nil || len(ips) == 0 {
			return
		}
		wantV4 := u.scheme == "udp4" || u.scheme == "tcp4"
		for _, ip := range ips {
			isV4 := ip.To4() != nil
			if isV4 == wantV4 {
				u.path = ip.String()
				return
			}
		}
	}
}

// DecodeURIString parses a scheme://path[:port] string into a URI. It
// returns nil if the string has no recognizable scheme separator.
func DecodeURIString(s string) *URI {
	parts := strings.SplitN(s, "://", 2)
	if len(parts) != 2 {
		return nil
	}
	scheme, rest := parts[0], parts[1]

	switch scheme {
	case "unix", "ether", "fd", "dev", "null":
		return &URI{scheme: scheme, path: rest}
	default:
		host, portStr, err := net.SplitHostPort(rest)
		if err != nil {
			return &URI{scheme: scheme, path: rest}
		}
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return &URI{scheme: scheme, path: host}
		}
		return &URI{scheme: scheme, path: host, port: uint16(port)}
	}
}

// MakeUDPFaceURI creates a udp4 or udp6 URI (based on ipVersion, 4 or 6)
// for the given host and port.
func MakeUDPFaceURI(ipVersion int, host string, port uint16) *URI {
	scheme := "udp4"
	if ipVersion == 6 {
		scheme = "udp6"
	}
	return &URI{scheme: scheme, path: host, port: port}
}

// MakeTCPFaceURI creates a tcp4 or tcp6 URI (based on ipVersion, 4 or 6)
// for the given host and port.
func MakeTCPFaceURI(ipVersion int, host string, port uint16) *URI {
	scheme := "tcp4"
	if ipVersion == 6 {
		scheme = "tcp6"
	}
	return &URI{scheme: scheme, path: host, port: port}
}

// MakeUnixFaceURI creates a unix URI for the given socket path.
func MakeUnixFaceURI(path string) *URI {
	return &URI{scheme: "unix", path: path}
}

// MakeFDFaceURI creates a fd URI wrapping an already-open file descriptor path.
func MakeFDFaceURI(path string) *URI {
	return &URI{scheme: "fd", path: path}
}

// MakeEtherFaceURI creates an ether URI for the given MAC address string.
func MakeEtherFaceURI(mac string) *URI {
	return &URI{scheme: "ether", path: mac}
}

// MakeDevFaceURI creates a dev URI naming a network interface.
func MakeDevFaceURI(ifname string) *URI {
	return &URI{scheme: "dev", path: ifname}
}

// MakeNullFaceURI creates the sentinel null:// URI used by the black-hole face.
func MakeNullFaceURI() *URI {
	return &URI{scheme: "null"}
}

// MakeQuicFaceURI builds a quic:// URI from a net.Addr (as reported by a QUIC connection).
func MakeQuicFaceURI(addr net.Addr) *URI {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return &URI{scheme: "quic", path: addr.String()}
	}
	port, _ := strconv.ParseUint(portStr, 10, 16)
	return &URI{scheme: "quic", path: host, port: uint16(port)}
}

// MakeWebSocketClientFaceURI builds a ws:// URI for an accepted WebSocket client connection.
func MakeWebSocketClientFaceURI(addr net.Addr) *URI {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return &URI{scheme: "ws", path: addr.String()}
	}
	port, _ := strconv.ParseUint(portStr, 10, 16)
	return &URI{scheme: "ws", path: host, port: uint16(port)}
}

// MakeWebSocketServerFaceURI builds the local-side ws:// URI a WebSocket
// listener reports for connections it accepts, reusing the listener's own URI.
func MakeWebSocketServerFaceURI(listenURI *URI) *URI {
	return &URI{scheme: "ws", path: listenURI.path, port: listenURI.port}
}
