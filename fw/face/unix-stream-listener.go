/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/named-data/ndnd/fw/core"
	defn "github.com/named-data/ndnd/fw/defn"
)

// nextUnixStreamID labels each accepted Unix stream connection with a
// small, unique "fd" URI path component; it has no relation to the
// process's actual file descriptor numbers.
var nextUnixStreamID atomic.Uint64

// UnixStreamListener listens for incoming Unix stream connections from
// local applications.
type UnixStreamListener struct {
	conn     *net.UnixListener
	localURI *defn.URI
	stopped  chan bool
}

// MakeUnixStreamListener constructs a UnixStreamListener bound to localURI's path.
func MakeUnixStreamListener(localURI *defn.URI) (*UnixStreamListener, error) {
	localURI.Canonize()
	if !localURI.IsCanonical() || localURI.Scheme() != "unix" {
		return nil, defn.ErrNotCanonical
	}

	l := new(UnixStreamListener)
	l.localURI = localURI
	l.stopped = make(chan bool, 1)
	return l, nil
}

// String identifies the listener for logging.
func (l *UnixStreamListener) String() string {
	return fmt.Sprintf("unix-stream-listener (%s)", l.localURI)
}

// Run removes any stale socket file, listens on the Unix stream socket,
// and accepts connections, registering an NDNLPLinkService over each one.
func (l *UnixStreamListener) Run() {
	defer func() { l.stopped <- true }()

	path := l.localURI.Path()
	os.Remove(path)

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		core.Log.Error(l, "Unable to resolve Unix stream socket path", "err", err)
		return
	}

	l.conn, err = net.ListenUnix("unix", addr)
	if err != nil {
		core.Log.Error(l, "Unable to start Unix stream listener", "err", err)
		return
	}

	for !core.ShouldQuit {
		remoteConn, err := l.conn.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			core.Log.Warn(l, "Unable to accept connection", "err", err)
			continue
		}

		remoteURI := defn.MakeFDFaceURI(strconv.FormatUint(nextUnixStreamID.Add(1), 10))
		newTransport, err := MakeUnixStreamTransport(remoteURI, l.localURI, remoteConn)
		if err != nil {
			core.Log.Error(l, "Failed to create new Unix stream transport", "err", err)
			continue
		}

		core.Log.Info(l, "Accepting new Unix stream face", "uri", newTransport.RemoteURI())
		MakeNDNLPLinkService(newTransport, MakeNDNLPLinkServiceOptions()).Run(nil)
	}
}

// Close stops the listener and removes the socket file.
func (l *UnixStreamListener) Close() {
	if l.conn != nil {
		l.conn.Close()
		<-l.stopped
		os.Remove(l.localURI.Path())
	}
}
