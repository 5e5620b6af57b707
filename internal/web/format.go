package web

import (
	"fmt"
	"time"

	"prophet-ai/internal/domain"
)

// FormatCA shortens a mint address to its first 6 and last 4 characters.
// Addresses too short to shorten are returned unchanged. Counts runes, so
// non-ASCII identifiers are never split mid-character.
func FormatCA(mint string) string {
	r := []rune(mint)
	if len(r) <= 10 {
		return mint
	}
	return string(r[:6]) + "..." + string(r[len(r)-4:])
}

// TimeAgo renders the age of t relative to now in whole seconds, minutes or
// hours. Future timestamps render as "0s ago".
func TimeAgo(now, t time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return fmt.Sprintf("%dh ago", minutes/60)
}

// StatusLabel is the header status text: LIVE when connected, otherwise the
// state name.
func StatusLabel(s domain.ConnState) string {
	if s.IsLive() {
		return "LIVE"
	}
	return s.String()
}

// HeroStatus is the compact hero indicator.
func HeroStatus(s domain.ConnState) string {
	if s.IsLive() {
		return "LIVE"
	}
	return "OFF"
}

// ExplorerURL links a mint to Solscan. Empty when mint is not a valid
// on-curve address.
func ExplorerURL(mint string) string {
	if !domain.ValidMintAddress(mint) {
		return ""
	}
	return "https://solscan.io/token/" + mint
}
