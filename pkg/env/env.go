// Package env provides the common configuration of serbridge binaries.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robotalks/serbridge/pkg/forward"
	"github.com/robotalks/serbridge/pkg/status"
	"github.com/robotalks/serbridge/pkg/status/mqtt"
	"github.com/robotalks/serbridge/pkg/wire"
)

// Config provides common options of the bridge.
type Config struct {
	// Device is the serial port, e.g. /dev/ttyUSB0.
	Device string
	// BaudRate is a baud rate selection, "unknown" allowed.
	BaudRate string
	Host     string
	Port     int
	Interval time.Duration
	// MQTTBrokerURL enables status publishing when set.
	// e.g. mqtt://host:port/topic-prefix/
	MQTTBrokerURL string
	BridgeID      string
	Debug         bool
}

var defaultConfig = Config{
	BaudRate: "9600",
	Port:     wire.DefaultPort,
	Interval: forward.DefaultInterval,
}

func init() {
	if val := os.Getenv("SERBRIDGE_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("SERBRIDGE_BAUD"); val != "" {
		defaultConfig.BaudRate = val
	}
	if val := os.Getenv("SERBRIDGE_HOST"); val != "" {
		defaultConfig.Host = val
	}
	if val := os.Getenv("SERBRIDGE_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial port device")
	flag.StringVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate, or unknown")
	flag.StringVar(&defaultConfig.Host, "host", defaultConfig.Host, "Destination host")
	flag.IntVar(&defaultConfig.Port, "port", defaultConfig.Port, "Destination UDP port")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Pause after each forwarded line")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for status publishing")
	flag.StringVar(&defaultConfig.BridgeID, "id", defaultConfig.BridgeID, "Bridge ID, defaults to machine id")
	flag.BoolVar(&defaultConfig.Debug, "debug", defaultConfig.Debug, "Log every forwarded line")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ID returns BridgeID or the short machine id.
func (c *Config) ID() string {
	if c.BridgeID != "" {
		return c.BridgeID
	}
	return ShortMachineID()
}

// Settings creates the forwarding settings store.
func (c *Config) Settings() *forward.Config {
	return forward.NewConfig(c.Host, forward.ParseBaudRate(c.BaudRate))
}

// NewPublisher creates the status publisher, Nop without MQTT.
func (c *Config) NewPublisher() (status.Publisher, error) {
	if c.MQTTBrokerURL == "" {
		return status.Nop{}, nil
	}
	pub, err := mqtt.NewPublisher(c.MQTTBrokerURL, c.ID())
	if err != nil {
		return nil, fmt.Errorf("connect MQTT %s: %w", c.MQTTBrokerURL, err)
	}
	return pub, nil
}

// MustNewPublisher creates the status publisher and fails on error.
func (c *Config) MustNewPublisher() status.Publisher {
	pub, err := c.NewPublisher()
	if err != nil {
		log.Fatalln(err)
	}
	return pub
}
