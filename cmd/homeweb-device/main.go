// Command homeweb-device runs a HomeWeb root device.
//
// The device tree is either loaded from a YAML config file or built as a
// small demo tree. The command starts the HTTP dispatcher, announces the
// root via mDNS and drives the periodic work loop.
//
// Usage:
//
//	homeweb-device [flags]
//
// Flags:
//
//	-config string   Configuration file path
//	-port int        Listen port (default 8080)
//	-target string   Root target path segment (default "root")
//	-name string     Root display name
//	-log-file string HomeWeb event log file (.hlog)
//	-tick duration   Work loop interval (default 1s)
//	-no-mdns         Disable mDNS announcement
//	-interactive     Start the interactive console
//
// Examples:
//
//	# Start with the demo tree on port 8080
//	homeweb-device
//
//	# Start from a config file with an event log
//	homeweb-device -config hub.yaml -log-file hub.hlog
//
//	# Explore late binding from the console
//	homeweb-device -interactive
package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homeweb-protocol/homeweb-go/cmd/homeweb-device/interactive"
	"github.com/homeweb-protocol/homeweb-go/pkg/config"
	"github.com/homeweb-protocol/homeweb-go/pkg/discovery"
	"github.com/homeweb-protocol/homeweb-go/pkg/log"
	"github.com/homeweb-protocol/homeweb-go/pkg/model"
	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

var opts struct {
	ConfigFile  string
	Port        int
	Target      string
	Name        string
	LogFile     string
	Tick        time.Duration
	NoMDNS      bool
	Interactive bool
}

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	flag.IntVar(&opts.Port, "port", 8080, "Listen port")
	flag.StringVar(&opts.Target, "target", "root", "Root target path segment")
	flag.StringVar(&opts.Name, "name", "HomeWeb Device", "Root display name")
	flag.StringVar(&opts.LogFile, "log-file", "", "HomeWeb event log file (.hlog)")
	flag.DurationVar(&opts.Tick, "tick", time.Second, "Work loop interval")
	flag.BoolVar(&opts.NoMDNS, "no-mdns", false, "Disable mDNS announcement")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Start the interactive console")
}

func main() {
	flag.Parse()

	logger, closeLog, err := buildLogger()
	if err != nil {
		stdlog.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	root, port := buildTree()
	if opts.Port != 8080 || port == 0 {
		port = opts.Port
	}

	server := web.NewServer(web.ServerConfig{Port: port, Logger: logger})
	if err := server.Start(); err != nil {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	defer server.Close()

	root.Setup(server)
	stdlog.Printf("Serving %q on port %d", root.DisplayName(), server.Port())
	stdlog.Printf("Root page: %s", root.RootLocation(localIP()))

	if !opts.NoMDNS {
		announcer := discovery.NewMDNSAnnouncer(discovery.AnnouncerConfig{Logger: logger})
		defer announcer.Shutdown()

		info, err := discovery.RootInfo(root, localIP())
		if err != nil {
			stdlog.Printf("Warning: not announceable: %v", err)
		} else if err := announcer.Announce(info); err != nil {
			stdlog.Printf("Warning: mDNS announce failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runWorkLoop(ctx, root, logger)

	if opts.Interactive {
		console, err := interactive.New(root)
		if err != nil {
			stdlog.Fatalf("Failed to start console: %v", err)
		}
		console.Run(ctx, cancel)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	stdlog.Printf("Received signal: %v, shutting down", sig)
}

// buildLogger assembles the event logger: slog to stderr, plus the
// CBOR file logger when -log-file is set.
func buildLogger() (log.Logger, func(), error) {
	slogger := log.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if opts.LogFile == "" {
		return slogger, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(opts.LogFile)
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if err := fileLogger.Close(); err != nil {
			stdlog.Printf("Error closing log file: %v", err)
		}
	}
	return log.NewMultiLogger(slogger, fileLogger), closeLog, nil
}

// buildTree constructs the device tree from the config file, or the
// demo tree when no config is given. The returned port is the config
// file's port, or 0 when flags should decide.
func buildTree() (*model.RootDevice, int) {
	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			stdlog.Fatalf("Invalid configuration: %v", err)
		}
		return cfg.Build(), cfg.Port
	}

	root := model.NewRootDevice(opts.Target)
	root.SetDisplayName(opts.Name)

	clock := model.NewDevice("clock")
	clock.SetDisplayName("Clock")
	now := model.NewService("now")
	now.SetDisplayName("Current Time")
	now.SetHandler(func(ctx *web.Context) {
		body := time.Now().Format(time.RFC1123)
		ctx.Send(200, "text/plain", []byte(body))
	})
	clock.AddService(now)
	root.AddDevice(clock)

	return root, 0
}

func runWorkLoop(ctx context.Context, root *model.RootDevice, logger log.Logger) {
	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			root.DoDevice()
			event := log.NewEvent(log.CategoryTick)
			event.Target = root.Target()
			logger.Log(event)
		}
	}
}

// localIP returns the first non-loopback IPv4 address, or loopback when
// none is available.
func localIP() net.IP {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			if ipn, ok := addr.(*net.IPNet); ok && !ipn.IP.IsLoopback() && ipn.IP.To4() != nil {
				return ipn.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
