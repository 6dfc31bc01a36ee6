package mqtt

import (
	"github.com/golang/glog"

	"github.com/robotalks/serbridge/pkg/status"
)

// StatusTopic is the topic (without prefix) carrying the status of a bridge.
func StatusTopic(bridgeID string) string {
	return bridgeID + "/status"
}

// StatusPattern matches the status topic of every bridge.
const StatusPattern = "+/status"

// Publisher publishes retained status reports. An empty retained message
// clears the status when the bridge closes or drops off.
type Publisher struct {
	Queue    *Queue
	BridgeID string
}

// NewPublisher connects to the broker.
func NewPublisher(brokerURL, bridgeID string) (*Publisher, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID("serbridge-" + bridgeID)
	}
	opts.SetBinaryWill(prefix+StatusTopic(bridgeID), []byte{}, 1, true)
	p := &Publisher{Queue: NewQueue(opts, prefix), BridgeID: bridgeID}
	if err := p.Queue.Connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish implements status.Publisher.
func (p *Publisher) Publish(r *status.Report) error {
	r.BridgeID = p.BridgeID
	payload, err := r.Encode()
	if err != nil {
		return err
	}
	glog.V(2).Infof("status %s", r)
	return Wait(p.Queue.PubWith(StatusTopic(p.BridgeID), payload, 1, true), DefaultTimeout)
}

// Close implements status.Publisher.
func (p *Publisher) Close() error {
	err := Wait(p.Queue.PubWith(StatusTopic(p.BridgeID), []byte{}, 1, true), DefaultTimeout)
	p.Queue.Close()
	return err
}

// WatchStatus calls fn for each status report published by any bridge.
// A nil report means the bridge status was cleared.
func WatchStatus(q *Queue, fn func(bridgeID string, r *status.Report, err error)) *Subscription {
	return q.Sub(StatusPattern, func(topic string, payload []byte) {
		bridgeID := topic[:len(topic)-len("/status")]
		if len(payload) == 0 {
			fn(bridgeID, nil, nil)
			return
		}
		r, err := status.Decode(payload)
		fn(bridgeID, r, err)
	})
}
