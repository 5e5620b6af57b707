package domain

import (
	"testing"
	"time"
)

func TestNewObservedToken_Placeholders(t *testing.T) {
	now := time.Unix(1704067200, 0)

	tok := NewObservedToken("mint1", "", "", "", now)
	if tok.Name != UnknownName {
		t.Errorf("Name: got %q, want %q", tok.Name, UnknownName)
	}
	if tok.Symbol != UnknownSymbol {
		t.Errorf("Symbol: got %q, want %q", tok.Symbol, UnknownSymbol)
	}
	if !tok.ObservedAt.Equal(now) {
		t.Errorf("ObservedAt: got %v, want %v", tok.ObservedAt, now)
	}
}

func TestNewObservedToken_KeepsFields(t *testing.T) {
	tok := NewObservedToken("ABC123", "Foo", "FOO", "https://ipfs.io/ipfs/x", time.Now())
	if tok.Mint != "ABC123" || tok.Name != "Foo" || tok.Symbol != "FOO" {
		t.Errorf("unexpected token: %+v", tok)
	}
	if tok.URI != "https://ipfs.io/ipfs/x" {
		t.Errorf("URI: got %q", tok.URI)
	}
}

func TestConnState_String(t *testing.T) {
	tests := []struct {
		state ConnState
		want  string
	}{
		{ConnDisconnected, "disconnected"},
		{ConnConnecting, "connecting"},
		{ConnConnected, "connected"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}

	var zero ConnState
	if zero != ConnDisconnected {
		t.Error("zero value should be disconnected")
	}
	if !ConnConnected.IsLive() || ConnConnecting.IsLive() {
		t.Error("only connected should be live")
	}
}

func TestValidMintAddress(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		// ed25519 base point, base58 encoded
		{"on curve", "6x5SYnLroiN7WYq8NQYU9KHcH4YjpBbwpUfVu3EB7ieH", true},
		// y=2 has no matching x
		{"off curve", "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh", false},
		{"empty", "", false},
		{"not base58", "0OIl", false},
		{"too short", "ABC123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidMintAddress(tt.addr); got != tt.want {
				t.Errorf("ValidMintAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
