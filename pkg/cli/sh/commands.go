package sh

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/serbridge/pkg/ping"
	"github.com/robotalks/serbridge/pkg/serialport"
)

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "list serial ports",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ports, err := serialport.List()
			if err != nil {
				s.Fail(c, err)
				return
			}
			if s.OutputJSON {
				if ports == nil {
					ports = []serialport.PortInfo{}
				}
				s.printJSON(c, ports)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, p := range ports {
				c.Println(p.String())
			}
		},
	}

	// OpenCmd opens a serial port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "DEVICE [BAUD] - open a serial port",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			device, baud := s.Config.Device, s.Config.BaudRate
			if len(c.Args) > 0 {
				device = c.Args[0]
			}
			if len(c.Args) > 1 {
				baud = c.Args[1]
			}
			if device == "" {
				s.Fail(c, fmt.Errorf("device expected"))
				return
			}
			if err := s.Bridge.OpenPort(device, baud); err != nil {
				s.Fail(c, err)
				return
			}
			s.updatePrompt()
		},
	}

	// CloseCmd closes the serial port.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "close the serial port",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if err := s.Bridge.ClosePort(); err != nil {
				s.Fail(c, err)
			}
			s.updatePrompt()
		},
	}

	// BaudCmd shows or changes the baud rate.
	BaudCmd = ishell.Cmd{
		Name:    "baud",
		Aliases: []string{"b"},
		Help:    "[RATE|unknown] - show or set the baud rate",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				if rate := s.Bridge.Settings.Settings().BaudRate; rate != 0 {
					c.Println(rate)
				} else {
					c.Println(serialport.UnknownBaudRate)
				}
				return
			}
			if err := s.Bridge.SetBaudRate(c.Args[0]); err != nil {
				s.Fail(c, err)
			}
		},
	}

	// HostCmd shows or changes the destination host.
	HostCmd = ishell.Cmd{
		Name:    "host",
		Aliases: []string{"h"},
		Help:    "[ADDR] - show or set the destination host",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				c.Println(s.Bridge.Settings.Settings().Host)
				return
			}
			s.Bridge.SetHost(c.Args[0])
			s.updatePrompt()
		},
	}

	// ConnectCmd starts forwarding.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "start forwarding lines to the host",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			sess, err := s.Bridge.Connect(context.Background())
			if err != nil {
				s.Fail(c, err)
				return
			}
			s.updatePrompt()
			c.Printf("Forwarding started (session %s)\n", sess.ID)
		},
	}

	// DisconnectCmd stops forwarding.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "stop forwarding",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if err := s.Bridge.Disconnect(); err != nil {
				s.Fail(c, err)
			}
			s.updatePrompt()
		},
	}

	// PingCmd pings the destination host.
	PingCmd = ishell.Cmd{
		Name: "ping",
		Help: "[ADDR] - ping the destination host",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			host := s.Bridge.Settings.Settings().Host
			if len(c.Args) > 0 {
				host = c.Args[0]
			}
			if host == "" {
				s.Fail(c, ErrNoHost)
				return
			}
			rtt, err := ping.Ping(context.Background(), host, ping.DefaultTimeout)
			if err != nil {
				c.Printf("Ping failed: %v\n", err)
				return
			}
			c.Printf("Ping succeeded: %v\n", rtt)
		},
	}

	// StatusCmd shows the bridge status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "show bridge status",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			r := s.Bridge.Report()
			if s.OutputJSON {
				s.printJSON(c, r)
				return
			}
			for _, line := range formatReport(r) {
				c.Println(line)
			}
		},
	}

	// ForwardCmd forwards until interrupted.
	ForwardCmd = ishell.Cmd{
		Name: "forward",
		Help: "[DEVICE] - open the port and forward until interrupted",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Device = c.Args[0]
			}
			if err := s.Forward(); err != nil {
				s.Fail(c, err)
			}
			s.updatePrompt()
		},
	}
)
