/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"context"

	"github.com/named-data/ndnd/fw/core"
	"github.com/named-data/ndnd/fw/defn"
	"github.com/named-data/ndnd/fw/face"
	"github.com/named-data/ndnd/fw/fw"
	"github.com/named-data/ndnd/fw/table"
)

// listener is anything this process runs an accept loop for until Close is called.
type listener interface {
	Run()
	Close()
}

// YaNFD is a complete forwarder process: the tables, the single
// cooperative forwarding thread, every enabled face listener, and the
// optional CPU/memory/block profiler.
type YaNFD struct {
	config    *core.Config
	thread    *fw.Thread
	cancel    context.CancelFunc
	listeners []listener
	profiler  *Profiler
}

// String identifies the process for logging.
func (y *YaNFD) String() string { return "yanfd" }

// NewYaNFD builds a YaNFD from config without starting anything yet.
func NewYaNFD(config *core.Config) *YaNFD {
	core.ConfigureLogger(config)
	core.C = config

	table.InitTables(config)

	return &YaNFD{
		config: config,
		thread: fw.NewThread(0, config),
	}
}

// Start brings the forwarder up: the profiler (if configured), the
// forwarding thread's event loop, and every face listener enabled in
// config. It returns once every listener's accept loop is running.
func (y *YaNFD) Start() {
	if y.config.Core.CpuProfile != "" || y.config.Core.MemProfile != "" || y.config.Core.BlockProfile != "" {
		y.profiler = NewProfiler(y.config)
		if err := y.profiler.Start(); err != nil {
			core.Log.Fatal(y, "Unable to start profiler", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	y.cancel = cancel
	go y.thread.Run(ctx)

	fc := y.config.Faces

	if fc.Tcp.Enabled {
		y.startListener(face.MakeTCPListener(defn.MakeTCPFaceURI(4, "0.0.0.0", fc.Tcp.Port)))
	}
	if fc.Tcp.EnabledV6 {
		y.startListener(face.MakeTCPListener(defn.MakeTCPFaceURI(6, "::", fc.Tcp.Port)))
	}

	if fc.Udp.Enabled {
		y.startMulticastUDP(defn.MakeUDPFaceURI(4, "0.0.0.0", fc.Udp.PortMulticast))
	}
	if fc.Udp.EnabledV6 {
		y.startMulticastUDP(defn.MakeUDPFaceURI(6, "::", fc.Udp.PortMulticast))
	}

	if fc.Unix.Enabled {
		y.startListener(face.MakeUnixStreamListener(defn.MakeUnixFaceURI(fc.Unix.SocketPath)))
	}

	if fc.WebSocket.Enabled {
		y.startWebSocket(fc.WebSocket)
	}

	if fc.Http3.Enabled {
		y.startHTTP3(fc.Http3)
	}

	core.Log.Info(y, "YaNFD started")
}

func (y *YaNFD) startListener(l listener, err error) {
	if err != nil {
		core.Log.Error(y, "Unable to create face listener", "err", err)
		return
	}
	y.listeners = append(y.listeners, l)
	go l.Run()
}

func (y *YaNFD) startMulticastUDP(localURI *defn.URI) {
	t, err := face.MakeMulticastUDPTransport(localURI)
	if err != nil {
		core.Log.Error(y, "Unable to create multicast UDP transport", "err", err)
		return
	}
	go face.MakeNDNLPLinkService(t, face.MakeNDNLPLinkServiceOptions()).Run(nil)
}

func (y *YaNFD) startWebSocket(cfg core.WebSocketFaceConfig) {
	l, err := face.NewWebSocketListener(face.WebSocketListenerConfig{
		Bind:       cfg.Bind,
		Port:       cfg.Port,
		TLSEnabled: cfg.TLSCert != "" && cfg.TLSKey != "",
		TLSCert:    cfg.TLSCert,
		TLSKey:     cfg.TLSKey,
	})
	if err != nil {
		core.Log.Error(y, "Unable to create WebSocket listener", "err", err)
		return
	}
	y.listeners = append(y.listeners, l)
	go l.Run()
}

func (y *YaNFD) startHTTP3(cfg core.Http3FaceConfig) {
	l, err := face.NewHTTP3Listener(face.HTTP3ListenerConfig{
		Bind:    cfg.Bind,
		Port:    cfg.Port,
		TLSCert: cfg.TLSCert,
		TLSKey:  cfg.TLSKey,
	})
	if err != nil {
		core.Log.Error(y, "Unable to create HTTP/3 listener", "err", err)
		return
	}
	y.listeners = append(y.listeners, l)
	go l.Run()
}

// Stop closes every listener, stops the forwarding thread, and writes out
// any profiler output.
func (y *YaNFD) Stop() {
	for _, l := range y.listeners {
		l.Close()
	}
	y.cancel()
	y.thread.Stop()

	if y.profiler != nil {
		y.profiler.Stop()
	}
}
