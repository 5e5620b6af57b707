package domain

// ConnState is the feed connection state shown by the status indicator.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
)

// String returns the lower-case state name.
func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// IsLive reports whether the feed is currently delivering events.
func (s ConnState) IsLive() bool {
	return s == ConnConnected
}
