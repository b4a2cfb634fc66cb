/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"fmt"
	"net"

	"github.com/named-data/ndnd/fw/core"
	defn "github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/face/impl"
	spec_mgmt "github.com/named-data/ndnd/std/ndn/mgmt_2022"
	ndn_io "github.com/named-data/ndnd/std/utils/io"
)

// UnicastTCPTransport is a unicast TCP transport accepted by TCPListener.
type UnicastTCPTransport struct {
	conn *net.TCPConn
	transportBase
}

// AcceptUnicastTCPTransport wraps an already-accepted TCP connection as a transport.
func AcceptUnicastTCPTransport(
	conn net.Conn,
	localURI *defn.URI,
	persistency spec_mgmt.Persistency,
) (*UnicastTCPTransport, error) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil, fmt.Errorf("not a TCP connection")
	}

	remoteURI := defn.DecodeURIString(localURI.Scheme() + "://" + conn.RemoteAddr().String())

	t := new(UnicastTCPTransport)
	t.conn = tcpConn
	t.makeTransportBase(
		remoteURI, localURI, persistency,
		defn.NonLocal, defn.PointToPoint,
		defn.MaxNDNPacketSize)

	ip := net.ParseIP(remoteURI.Path())
	if ip != nil && ip.IsLoopback() {
		t.scope = defn.Local
	}

	t.running.Store(true)
	return t, nil
}

// Returns a string representation of the UnicastTCPTransport containing its face ID, remote URI, and local URI.
func (t *UnicastTCPTransport) String() string {
	return fmt.Sprintf("unicast-tcp-transport (face=%d remote=%s local=%s)", t.faceID, t.remoteURI, t.localURI)
}

// SetPersistency changes the persistency of the face; TCP faces accept any value.
func (t *UnicastTCPTransport) SetPersistency(persistency spec_mgmt.Persistency) bool {
	t.persistency = persistency
	return true
}

// GetSendQueueSize returns the current size of the send queue.
func (t *UnicastTCPTransport) GetSendQueueSize() uint64 {
	rawConn, err := t.conn.SyscallConn()
	if err != nil {
		core.Log.Warn(t, "Unable to get raw connection to get socket length", "err", err)
	}
	return impl.SyscallGetSocketSendQueueSize(rawConn)
}

// Sends a frame over the TCP connection, enforcing the MTU and closing the
// face on a write failure.
func (t *UnicastTCPTransport) sendFrame(frame []byte) {
	if !t.running.Load() {
		return
	}

	if len(frame) > t.MTU() {
		core.Log.Error(t, "Attempted to send frame larger than MTU", "size", len(frame), "MTU", t.MTU())
		return
	}

	if _, err := t.conn.Write(frame); err != nil {
		core.Log.Warn(t, "Unable to send on socket - Face DOWN")
		t.Close()
		return
	}

	t.nOutBytes += uint64(len(frame))
}

// Reads TLV-framed NDN packets from the TCP stream until the connection
// closes or an unrecoverable error occurs, handing each to the link service.
func (t *UnicastTCPTransport) runReceive() {
	defer t.Close()

	err := ndn_io.ReadTlvStream(t.conn, func(b []byte) bool {
		t.nInBytes += uint64(len(b))
		t.linkService.handleIncomingFrame(b)
		return true
	}, nil)
	if err != nil && t.running.Load() {
		core.Log.Warn(t, "Unable to read from socket - Face DOWN", "err", err)
	}
}

// Closes the underlying TCP connection and marks the transport stopped.
func (t *UnicastTCPTransport) Close() {
	if t.running.Swap(false) {
		t.conn.Close()
	}
}
