package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// Announcer advertises a root device on the local network.
type Announcer interface {
	// Announce starts (or replaces) the advertisement for info.
	Announce(info *Info) error

	// Shutdown stops the advertisement. Safe to call when idle.
	Shutdown()
}

// AnnouncerConfig configures announcer behavior.
type AnnouncerConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration

	// Logger receives discovery events. Nil disables logging.
	Logger log.Logger
}

// DefaultAnnouncerConfig returns the default announcer configuration.
func DefaultAnnouncerConfig() AnnouncerConfig {
	return AnnouncerConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// MDNSAnnouncer implements the Announcer interface using zeroconf.
type MDNSAnnouncer struct {
	config AnnouncerConfig
	logger log.Logger

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAnnouncer creates a new mDNS announcer.
func NewMDNSAnnouncer(config AnnouncerConfig) *MDNSAnnouncer {
	logger := config.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &MDNSAnnouncer{config: config, logger: logger}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAnnouncer) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Announce starts advertising the root described by info. An existing
// advertisement is replaced.
func (a *MDNSAnnouncer) Announce(info *Info) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	txtStrings := TXTRecordsToStrings(EncodeTXT(info))

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.instanceName(),
		ServiceType,
		Domain,
		info.Port,
		txtStrings,
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register homeweb service: %w", err)
	}
	a.server = server

	ev := log.NewEvent(log.CategoryDiscovery)
	ev.Detail = fmt.Sprintf("announcing %s at %s", info.instanceName(), info.Location)
	a.logger.Log(ev)

	return nil
}

// Shutdown stops the advertisement.
func (a *MDNSAnnouncer) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil

		ev := log.NewEvent(log.CategoryDiscovery)
		ev.Detail = "announcement stopped"
		a.logger.Log(ev)
	}
}

// Compile-time interface satisfaction check.
var _ Announcer = (*MDNSAnnouncer)(nil)
