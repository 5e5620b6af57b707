// Package oracle implements the scripted chat that answers queries about the
// tokens currently in view.
package oracle

import (
	"fmt"
	"strings"

	"prophet-ai/internal/domain"
)

// Intent is the reply branch a query resolves to.
type Intent string

const (
	IntentToken  Intent = "token"
	IntentRecent Intent = "recent"
	IntentHelp   Intent = "help"
)

// WelcomeMessage opens every session.
const WelcomeMessage = "Welcome to the Prophecy Oracle. I am connected to real-time Pumpfun data streams " +
	"and can analyze any token. Ask me about pump potential, risk assessment, or market sentiment."

// NoLaunchesReply is returned for a recent-launches query with an empty buffer.
const NoLaunchesReply = "Scanning for new launches... Stand by."

var recentKeywords = []string{"recent", "new", "launch"}

// Classify returns the intent for query and, for IntentToken, the first
// matching token in buffer order.
func Classify(query string, tokens []domain.ObservedToken) (Intent, *domain.ObservedToken) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return IntentHelp, nil
	}

	for i := range tokens {
		if matches(tokens[i], q) {
			return IntentToken, &tokens[i]
		}
	}

	for _, kw := range recentKeywords {
		if strings.Contains(q, kw) {
			return IntentRecent, nil
		}
	}
	return IntentHelp, nil
}

func matches(t domain.ObservedToken, q string) bool {
	return strings.Contains(strings.ToLower(t.Name), q) ||
		strings.Contains(strings.ToLower(t.Symbol), q) ||
		strings.Contains(strings.ToLower(t.Mint), q)
}

// Respond computes the reply for query against tokens. It always returns a
// non-empty string.
func Respond(query string, tokens []domain.ObservedToken) string {
	intent, token := Classify(query, tokens)
	switch intent {
	case IntentToken:
		return tokenReply(*token)
	case IntentRecent:
		return recentReply(tokens)
	default:
		return helpReply(strings.TrimSpace(query), len(tokens))
	}
}

func tokenReply(t domain.ObservedToken) string {
	return fmt.Sprintf("Analyzing $%s (%s)...\n\nCA: %s\n\n"+
		"This token was recently launched on Pumpfun. Our AI is monitoring on-chain activity "+
		"and social sentiment. Always DYOR before trading.", t.Symbol, t.Name, t.Mint)
}

func recentReply(tokens []domain.ObservedToken) string {
	if len(tokens) == 0 {
		return NoLaunchesReply
	}

	lines := make([]string, len(tokens))
	for i, t := range tokens {
		lines[i] = fmt.Sprintf("%d. $%s - %s", i+1, t.Symbol, t.Name)
	}
	return "Recent launches detected:\n\n" + strings.Join(lines, "\n") +
		"\n\nClick on any token card to copy the CA."
}

func helpReply(query string, inView int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Oracle processing query: \"%s\"\n\n", query)
	fmt.Fprintf(&b, "Currently monitoring Pumpfun in real-time. %d recent tokens in view.\n\n", inView)
	b.WriteString("Available commands:\n")
	b.WriteString("• Ask about specific token names\n")
	b.WriteString("• \"recent launches\" - see latest tokens\n")
	b.WriteString("• \"how does it work\" - learn about ProphetAI\n\n")
	b.WriteString("The Oracle sees all. Ask wisely.")
	return b.String()
}
