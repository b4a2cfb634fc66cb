/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "time"

// Config is the top-level, YAML-deserialized configuration for a forwarder
// process. Fields are read once at startup by fw/cmd and handed to the
// table and face subsystems; nothing in the runtime mutates it afterward,
// aside from the Core.*Profile fields bound directly to CLI flags.
type Config struct {
	Core   CoreConfig   `yaml:"core"`
	Fw     FwConfig     `yaml:"fw"`
	Tables TablesConfig `yaml:"tables"`
	Faces  FacesConfig  `yaml:"faces"`
}

// CoreConfig holds process-wide settings unrelated to forwarding logic.
type CoreConfig struct {
	// BaseDir is the directory the config file was loaded from; relative
	// paths elsewhere in the config (e.g. a unix socket path) resolve against it.
	BaseDir string `yaml:"-"`

	// LogLevel is one of TRACE, DEBUG, INFO, WARN, ERROR, FATAL.
	LogLevel string `yaml:"log_level"`

	CpuProfile   string `yaml:"-"`
	MemProfile   string `yaml:"-"`
	BlockProfile string `yaml:"-"`
}

// FwConfig controls the forwarding pipeline itself.
type FwConfig struct {
	// Threads is the number of parallel forwarding threads. The spec this
	// forwarder implements defines a single cooperative event loop per
	// process; this is fixed at 1 regardless of configuration.
	Threads int `yaml:"threads"`

	// DefaultStrategy is the short name (e.g. "best-route") of the
	// strategy assigned to "/" at startup; see defn.MakeStrategyName.
	DefaultStrategy string `yaml:"default_strategy"`

	// LockThreadsToCores pins each forwarding thread to an OS thread (no
	// effect with Threads == 1, kept for config-shape parity with the
	// multi-threaded forwarder this design descends from).
	LockThreadsToCores bool `yaml:"lock_threads_to_cores"`
}

// TablesConfig controls the shared data-plane tables.
type TablesConfig struct {
	ContentStore    ContentStoreConfig    `yaml:"content_store"`
	Pit             PitConfig             `yaml:"pit"`
	Measurements    MeasurementsConfig    `yaml:"measurements"`
	NetworkRegionsRIB RIBConfig           `yaml:"rib"`
}

// ContentStoreConfig controls the process-wide Content Store.
type ContentStoreConfig struct {
	// Capacity is the maximum number of Data packets cached.
	Capacity int `yaml:"capacity"`

	// Admit controls whether incoming Data is cached at all.
	Admit bool `yaml:"admit"`

	// Serve controls whether CS hits satisfy incoming Interests.
	Serve bool `yaml:"serve"`

	// Backend selects the storage implementation: "lru" (in-memory, the
	// default) or "badger" (persistent, on-disk).
	Backend string `yaml:"backend"`

	// BadgerDir is the directory for the badger backend's data files.
	BadgerDir string `yaml:"badger_dir"`
}

// PitConfig controls Pending Interest Table behavior.
type PitConfig struct {
	// UDPLifetime bounds how long a PIT entry reachable only through a
	// UDP face is kept when the Interest's own lifetime would exceed it.
	UDPLifetime time.Duration `yaml:"udp_lifetime"`
}

// MeasurementsConfig controls the per-name strategy scratch table.
type MeasurementsConfig struct {
	// Lifetime is how long a Measurements entry survives without refresh.
	Lifetime time.Duration `yaml:"lifetime"`
}

// RIBConfig is retained for config-shape parity; route readvertisement
// into an external routing protocol is out of scope for this forwarder.
type RIBConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FacesConfig groups per-transport-scheme settings.
type FacesConfig struct {
	Udp       UdpFaceConfig       `yaml:"udp"`
	Tcp       TcpFaceConfig       `yaml:"tcp"`
	Unix      UnixFaceConfig      `yaml:"unix"`
	WebSocket WebSocketFaceConfig `yaml:"websocket"`
	Http3     Http3FaceConfig     `yaml:"http3"`
	Ether     EtherFaceConfig     `yaml:"ether"`
}

type UdpFaceConfig struct {
	Enabled       bool   `yaml:"enabled"`
	EnabledV6     bool   `yaml:"enabled_v6"`
	PortUnicast   uint16 `yaml:"port_unicast"`
	PortMulticast uint16 `yaml:"port_multicast"`
	MulticastAddressV4 string `yaml:"multicast_address_v4"`
	MulticastAddressV6 string `yaml:"multicast_address_v6"`
	Lifetime      time.Duration `yaml:"lifetime"`
	DefaultMtu    uint16 `yaml:"default_mtu"`
}

type TcpFaceConfig struct {
	Enabled   bool   `yaml:"enabled"`
	EnabledV6 bool   `yaml:"enabled_v6"`
	Port      uint16 `yaml:"port"`
}

type UnixFaceConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SocketPath string `yaml:"socket_path"`
}

type WebSocketFaceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bind    string `yaml:"bind"`
	Port    uint16 `yaml:"port"`
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// Http3FaceConfig controls the HTTP/3 + WebTransport listener, which
// requires a TLS certificate (unlike the other listeners, there is no
// cleartext form of this scheme).
type Http3FaceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bind    string `yaml:"bind"`
	Port    uint16 `yaml:"port"`
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

type EtherFaceConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Multicast bool     `yaml:"multicast"`
	Interfaces []string `yaml:"interfaces"`
}

// DefaultConfig returns a Config populated with the same defaults a
// freshly-installed forwarder ships with, before any YAML file is merged
// over it.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			LogLevel: "INFO",
		},
		Fw: FwConfig{
			Threads:         1,
			DefaultStrategy: "best-route",
		},
		Tables: TablesConfig{
			ContentStore: ContentStoreConfig{
				Capacity: 1024,
				Admit:    true,
				Serve:    true,
				Backend:  "lru",
			},
			Pit: PitConfig{
				UDPLifetime: 60 * time.Second,
			},
			Measurements: MeasurementsConfig{
				Lifetime: 5 * time.Minute,
			},
		},
		Faces: FacesConfig{
			Udp: UdpFaceConfig{
				Enabled:            true,
				EnabledV6:          true,
				PortUnicast:        6363,
				PortMulticast:      56363,
				MulticastAddressV4: "224.0.23.170",
				MulticastAddressV6: "ff02::1234",
				Lifetime:           600 * time.Second,
				DefaultMtu:         1400,
			},
			Tcp: TcpFaceConfig{
				Enabled:   true,
				EnabledV6: true,
				Port:      6363,
			},
			Unix: UnixFaceConfig{
				Enabled:    true,
				SocketPath: "/run/ndnd/ndnd.sock",
			},
			WebSocket: WebSocketFaceConfig{
				Enabled: false,
				Bind:    "0.0.0.0",
				Port:    9696,
			},
			Http3: Http3FaceConfig{
				Enabled: false,
				Bind:    "0.0.0.0",
				Port:    6367,
			},
		},
	}
}
