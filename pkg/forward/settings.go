package forward

import (
	"strconv"
	"strings"
	"sync"
)

// Settings is a snapshot of the forwarding parameters.
// BaudRate 0 means unresolved.
type Settings struct {
	Host     string
	BaudRate uint32
}

// Resolved reports whether the baud rate is known.
func (s Settings) Resolved() bool {
	return s.BaudRate != 0
}

// SettingsProvider supplies a fresh snapshot on every call.
type SettingsProvider interface {
	Settings() Settings
}

// ParseBaudRate converts a user-facing baud rate selection.
// "unknown", empty and non-numeric values yield 0 (unresolved).
func ParseBaudRate(s string) uint32 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// Config is the owner-side store of Settings, safe for concurrent use.
// The owner mutates it while a session samples it per line.
type Config struct {
	lock     sync.RWMutex
	host     string
	baudRate uint32
}

// NewConfig creates a Config.
func NewConfig(host string, baudRate uint32) *Config {
	return &Config{host: host, baudRate: baudRate}
}

// Settings implements SettingsProvider.
func (c *Config) Settings() Settings {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return Settings{Host: c.host, BaudRate: c.baudRate}
}

// SetHost changes the destination host.
func (c *Config) SetHost(host string) {
	c.lock.Lock()
	c.host = strings.TrimSpace(host)
	c.lock.Unlock()
}

// SetBaudRate parses and stores the baud rate, see ParseBaudRate.
func (c *Config) SetBaudRate(s string) {
	c.SetBaudRateValue(ParseBaudRate(s))
}

// SetBaudRateValue stores the baud rate, 0 for unresolved.
func (c *Config) SetBaudRateValue(v uint32) {
	c.lock.Lock()
	c.baudRate = v
	c.lock.Unlock()
}
