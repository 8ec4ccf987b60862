// Package interactive provides the interactive command-line console
// for homeweb-device.
package interactive

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/chzyer/readline"

	"github.com/homeweb-protocol/homeweb-go/pkg/model"
	"github.com/homeweb-protocol/homeweb-go/pkg/web"
)

// Console handles interactive mode for homeweb-device.
type Console struct {
	root *model.RootDevice
	rl   *readline.Instance
}

// New creates a new interactive console for the given root device.
func New(root *model.RootDevice) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "device> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{root: root, rl: rl}, nil
}

// Run starts the interactive command loop. It returns when the user
// exits or ctx is cancelled.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "tree", "t":
			c.cmdTree()

		case "devices", "d":
			c.cmdDevices()

		case "find", "f":
			c.cmdFind(args)

		case "add-device", "ad":
			c.cmdAddDevice(args)

		case "add-service", "as":
			c.cmdAddService(args)

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
HomeWeb Device Commands:
  Inspection:
    tree                       - Print the device tree with paths
    devices                    - List embedded devices with UUIDs
    find <uuid>                - Find a device by UUID
    status                     - Show server attachment and location

  Tree Building:
    add-device <target> [name]          - Add a device to the root
    add-service <device> <target> [name] - Add a service to a device

  Other:
    help                       - Show this help
    quit                       - Exit`)
}

func (c *Console) cmdTree() {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "%s (%s)\n", c.root.DisplayName(), c.root.Path())
	for _, svc := range c.root.Services() {
		fmt.Fprintf(out, "  %s (%s)\n", svc.DisplayName(), svc.Path())
	}
	for _, dvc := range c.root.Devices() {
		fmt.Fprintf(out, "  %s (%s)\n", dvc.DisplayName(), dvc.Path())
		for _, svc := range dvc.Services() {
			fmt.Fprintf(out, "    %s (%s)\n", svc.DisplayName(), svc.Path())
		}
	}
}

func (c *Console) cmdDevices() {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "root %-24s uuid=%s urn=%s\n",
		c.root.Target(), c.root.UUID(), c.root.TypeIdentity())
	for _, dvc := range c.root.Devices() {
		fmt.Fprintf(out, "     %-24s uuid=%s urn=%s\n",
			dvc.Target(), dvc.UUID(), dvc.TypeIdentity())
	}
}

func (c *Console) cmdFind(args []string) {
	out := c.rl.Stdout()
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: find <uuid>")
		return
	}

	dvc := c.root.GetDeviceByUUID(args[0])
	if dvc == nil {
		fmt.Fprintln(out, "No device with that UUID")
		return
	}
	fmt.Fprintf(out, "%s at %s\n", dvc.DisplayName(), dvc.Path())
}

// cmdAddDevice adds a device while the tree is live. When the root is
// already attached the device's pages register immediately.
func (c *Console) cmdAddDevice(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "Usage: add-device <target> [name]")
		return
	}

	before := c.root.NumDevices()
	dvc := model.NewDevice(args[0])
	if len(args) > 1 {
		dvc.SetDisplayName(strings.Join(args[1:], " "))
	}
	c.root.AddDevice(dvc)

	if c.root.NumDevices() == before {
		fmt.Fprintln(out, "Device not added (capacity reached)")
		return
	}
	fmt.Fprintf(out, "Added %s at %s\n", dvc.DisplayName(), dvc.Path())
}

func (c *Console) cmdAddService(args []string) {
	out := c.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "Usage: add-service <device> <target> [name]")
		return
	}

	dvc := c.findByTarget(args[0])
	if dvc == nil {
		fmt.Fprintf(out, "No device with target %q\n", args[0])
		return
	}

	before := dvc.NumServices()
	svc := model.NewService(args[1])
	if len(args) > 2 {
		svc.SetDisplayName(strings.Join(args[2:], " "))
	}
	svc.SetHandler(func(ctx *web.Context) {
		ctx.Send(200, "text/plain", []byte(svc.DisplayName()))
	})
	dvc.AddService(svc)

	if dvc.NumServices() == before {
		fmt.Fprintln(out, "Service not added (capacity reached)")
		return
	}
	fmt.Fprintf(out, "Added %s at %s\n", svc.DisplayName(), svc.Path())
}

func (c *Console) cmdStatus() {
	out := c.rl.Stdout()
	if !c.root.Attached() {
		fmt.Fprintln(out, "Not attached to a server")
		return
	}
	fmt.Fprintf(out, "Attached, port %d\n", c.root.ServerPort())
	fmt.Fprintf(out, "Location: %s\n", c.root.RootLocation(localIP()))
}

func (c *Console) findByTarget(target string) *model.Device {
	if c.root.Target() == target {
		return &c.root.Device
	}
	for _, dvc := range c.root.Devices() {
		if dvc.Target() == target {
			return dvc
		}
	}
	return nil
}

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
