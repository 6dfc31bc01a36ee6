package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/serbridge/pkg/env"
	"github.com/robotalks/serbridge/pkg/forward"
	fx "github.com/robotalks/serbridge/pkg/framework"
	"github.com/robotalks/serbridge/pkg/status"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoOpen    bool

	Shell  *ishell.Shell
	Config *env.Config
	Bridge *Bridge

	errLock sync.Mutex
	err     error
}

const shellKey = "$shell"

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&BaudCmd,
		&HostCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&PingCmd,
		&StatusCmd,
		&ForwardCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Bridge: NewBridge(conf),
	}
	if !s.Interactive {
		s.Bridge.Publisher = conf.MustNewPublisher()
	} else if pub, err := conf.NewPublisher(); err != nil {
		glog.Warningf("status publishing disabled: %v", err)
	} else {
		s.Bridge.Publisher = pub
	}
	s.Bridge.OnSessionEnd = s.sessionEnded
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(s.Bridge.Prompt())
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Fail reports err on the context and remembers it for the exit status.
func (s *Shell) Fail(c *ishell.Context, err error) {
	s.errLock.Lock()
	s.err = err
	s.errLock.Unlock()
	c.Err(err)
}

func (s *Shell) lastErr() error {
	s.errLock.Lock()
	defer s.errLock.Unlock()
	return s.err
}

func (s *Shell) updatePrompt() {
	s.Shell.SetPrompt(s.Bridge.Prompt())
}

func (s *Shell) sessionEnded(sess *forward.Session, err error) {
	s.updatePrompt()
	if !s.Interactive {
		return
	}
	if err != nil {
		s.Shell.Printf("Forwarding stopped: %v\n", err)
		return
	}
	s.Shell.Println("Forwarding stopped")
}

func (s *Shell) printJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		s.Fail(c, err)
		return
	}
	c.Println(string(out))
}

// Forward opens the configured device if needed and forwards until
// interrupted or the session fails.
func (s *Shell) Forward() error {
	if _, open := s.Bridge.Device(); !open {
		if err := s.Bridge.OpenPort(s.Config.Device, s.Config.BaudRate); err != nil {
			return err
		}
	}
	runner := fx.NewRunner(context.Background()).HandleSignals()
	runner.Go(fx.NamedRun("forward", fx.RunFunc(func(ctx context.Context) error {
		sess, err := s.Bridge.Connect(ctx)
		if err != nil {
			return err
		}
		s.updatePrompt()
		glog.Infof("forwarding %s to %s:%d (session %s)",
			s.Config.Device, s.Bridge.Settings.Settings().Host, s.Config.Port, sess.ID)
		return sess.Wait()
	})))
	return runner.Wait()
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Bridge.Close()
	if s.AutoOpen && s.Interactive && s.Config.Device != "" {
		if err := s.Bridge.OpenPort(s.Config.Device, s.Config.BaudRate); err != nil {
			s.Shell.Printf("Open %s failed: %v\n", s.Config.Device, err)
		}
		s.updatePrompt()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		if err := s.lastErr(); err != nil {
			s.Bridge.Close()
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func formatReport(r *status.Report) []string {
	baud := "unknown"
	if r.BaudRate != 0 {
		baud = fmt.Sprintf("%d", r.BaudRate)
	}
	lines := []string{
		fmt.Sprintf("Bridge:  %s", r.BridgeID),
		fmt.Sprintf("State:   %s", r.State),
		fmt.Sprintf("Device:  %s", r.Device),
		fmt.Sprintf("Host:    %s", r.Host),
		fmt.Sprintf("Baud:    %s", baud),
	}
	if r.SessionID != "" {
		lines = append(lines,
			fmt.Sprintf("Session: %s", r.SessionID),
			fmt.Sprintf("Lines:   %d read, %d sent (%d bytes), %d failed",
				r.LinesRead, r.PacketsSent, r.BytesSent, r.SendFailures))
	}
	if r.LastError != "" {
		lines = append(lines, fmt.Sprintf("Error:   %s", r.LastError))
	}
	return lines
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoOpen(true).Run(flag.Args()...)
}
