package forward

import (
	"errors"
	"io"
	"sync"
)

var errClosed = errors.New("source closed")

type chanSource struct {
	lines  chan []byte
	errs   chan error
	closed chan struct{}
	once   sync.Once
	reads  int
	lock   sync.Mutex
}

func newChanSource() *chanSource {
	return &chanSource{
		lines:  make(chan []byte, 16),
		errs:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (s *chanSource) ReadLine() ([]byte, error) {
	select {
	case line, ok := <-s.lines:
		if !ok {
			return nil, io.EOF
		}
		s.lock.Lock()
		s.reads++
		s.lock.Unlock()
		return line, nil
	case err := <-s.errs:
		return nil, err
	case <-s.closed:
		return nil, errClosed
	}
}

func (s *chanSource) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *chanSource) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *chanSource) readCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.reads
}

type sentPacket struct {
	host string
	port int
	data []byte
}

type recordingSender struct {
	lock   sync.Mutex
	sent   []sentPacket
	sentCh chan sentPacket
	fail   func(host string) error
	closed bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sentCh: make(chan sentPacket, 16)}
}

func (s *recordingSender) SendTo(host string, port int, b []byte) error {
	p := sentPacket{host: host, port: port, data: append([]byte(nil), b...)}
	var err error
	if s.fail != nil {
		err = s.fail(host)
	}
	if err == nil {
		s.lock.Lock()
		s.sent = append(s.sent, p)
		s.lock.Unlock()
	}
	s.sentCh <- p
	return err
}

func (s *recordingSender) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}

func (s *recordingSender) packets() []sentPacket {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]sentPacket(nil), s.sent...)
}
