package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	fx "github.com/robotalks/serbridge/pkg/framework"
	"github.com/robotalks/serbridge/pkg/monitor"
	"github.com/robotalks/serbridge/pkg/status"
	"github.com/robotalks/serbridge/pkg/status/mqtt"
	"github.com/robotalks/serbridge/pkg/wire"
)

var (
	listenAddr = net.JoinHostPort("", "9000")
	mqttURL    string
	quiet      bool
)

func init() {
	if val := os.Getenv("SERBRIDGE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&listenAddr, "listen", listenAddr, "UDP address to receive datagrams.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL to watch bridge status.")
	flag.BoolVar(&quiet, "q", quiet, "Don't print payloads.")
}

func printPacket(from net.Addr, p *wire.Packet) {
	log.Printf("%s @%d: %q", from, p.BaudRate, p.Payload)
}

func printStatus(bridgeID string, r *status.Report, err error) {
	switch {
	case err != nil:
		log.Printf("%s: bad status: %v", bridgeID, err)
	case r == nil:
		log.Printf("%s: gone", bridgeID)
	default:
		log.Printf("%s: %s", bridgeID, r.String())
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	var handler monitor.Handler = printPacket
	if quiet {
		handler = nil
	}
	mon, err := monitor.New(listenAddr, handler)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("listening on %s", mon.LocalAddr())

	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		mqtt.WatchStatus(q, printStatus)
		if err := q.Connect(); err != nil {
			log.Fatalln(err)
		}
		defer q.Close()
	}

	runner := fx.NewRunner(context.Background()).HandleSignals().Go(mon)
	err = runner.Wait()
	c := mon.Counters()
	log.Printf("received %d packets, %d bad", c.Good, c.Bad)
	if err != nil {
		log.Fatalln(err)
	}
}
