// Package pumpportal implements a client for the PumpPortal public data feed.
package pumpportal

import (
	"errors"
	"fmt"

	"github.com/segmentio/encoding/json"
)

// DefaultEndpoint is the public PumpPortal data feed.
const DefaultEndpoint = "wss://pumpportal.fun/api/data"

// MethodSubscribeNewToken subscribes to token-creation events.
const MethodSubscribeNewToken = "subscribeNewToken"

// Frame errors. Both are expected traffic on the feed and are never fatal.
var (
	// ErrMalformedFrame is returned when a frame is not a JSON object.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrMissingFields is returned when a frame lacks a mint or a name.
	ErrMissingFields = errors.New("frame missing mint or name")
)

// SubscribeRequest is the subscription message sent after connecting.
type SubscribeRequest struct {
	Method string `json:"method"`
}

// NewTokenFrame holds the fields of a token-creation event used here.
// Other fields on the wire (trader, pool, marketCapSol, ...) are ignored.
type NewTokenFrame struct {
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri,omitempty"`
}

// ParseNewTokenFrame decodes a raw feed frame.
// Subscription acknowledgements and other non-token messages fail with
// ErrMissingFields.
func ParseNewTokenFrame(raw []byte) (NewTokenFrame, error) {
	var frame NewTokenFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return NewTokenFrame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if frame.Mint == "" || frame.Name == "" {
		return NewTokenFrame{}, ErrMissingFields
	}
	return frame, nil
}

func encodeSubscribe(method string) ([]byte, error) {
	return json.Marshal(SubscribeRequest{Method: method})
}
