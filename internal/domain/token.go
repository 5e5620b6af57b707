package domain

import "time"

// BufferCapacity is the number of recent tokens kept for display.
const BufferCapacity = 4

// Placeholders used when the feed omits a display field.
const (
	UnknownName   = "Unknown"
	UnknownSymbol = "???"
)

// ObservedToken represents one token-creation event received from the feed.
// Values are never updated after creation.
type ObservedToken struct {
	Mint       string    // opaque identifier (mint address)
	Name       string    // display name, UnknownName when absent
	Symbol     string    // display symbol, UnknownSymbol when absent
	URI        string    // metadata location (optional, not validated)
	ObservedAt time.Time // local receipt time, never sourced from the feed
}

// NewObservedToken builds a token applying display placeholders.
func NewObservedToken(mint, name, symbol, uri string, observedAt time.Time) ObservedToken {
	if name == "" {
		name = UnknownName
	}
	if symbol == "" {
		symbol = UnknownSymbol
	}
	return ObservedToken{
		Mint:       mint,
		Name:       name,
		Symbol:     symbol,
		URI:        uri,
		ObservedAt: observedAt,
	}
}
