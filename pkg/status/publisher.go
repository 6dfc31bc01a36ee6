package status

// Publisher delivers status reports.
type Publisher interface {
	Publish(*Report) error
	Close() error
}

// Nop discards reports.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(*Report) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
