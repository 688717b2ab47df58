// Package voice turns recognised speech text into storefront commands.
// Recognition itself happens elsewhere; this package only sees text.
package voice

import (
	"regexp"
	"strings"
)

type Action string

const (
	ActionUnknown  Action = "unknown"
	ActionAdd      Action = "add"
	ActionRemove   Action = "remove"
	ActionBuy      Action = "buy"
	ActionSearch   Action = "search"
	ActionShowCart Action = "show_cart"
	ActionCheckout Action = "checkout"
	ActionClear    Action = "clear_cart"
)

type Command struct {
	Action Action
	// Phrase names the product or search terms, with the verb and filler stripped.
	Phrase string
	Text   string
}

var spaces = regexp.MustCompile(`\s+`)

var addPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^add\s+`),
	regexp.MustCompile(`^at\s+`),
}

var addSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`\s+to\s+(my\s+)?(the\s+)?cart$`),
	regexp.MustCompile(`\s+cart$`),
}

var removePrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^remove\s+`),
	regexp.MustCompile(`^delete\s+`),
	regexp.MustCompile(`^take\s+out\s+`),
	regexp.MustCompile(`^get\s+rid\s+of\s+`),
}

var removeSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`\s+from\s+(my\s+)?(the\s+)?cart$`),
}

var buyPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^buy\s+`),
	regexp.MustCompile(`^purchase\s+`),
	regexp.MustCompile(`^get\s+me\s+`),
	regexp.MustCompile(`^get\s+`),
	regexp.MustCompile(`^i\s+want\s+(to\s+)?(buy\s+)?`),
	regexp.MustCompile(`^want\s+`),
}

var buySuffixes = []*regexp.Regexp{
	regexp.MustCompile(`\s+please$`),
}

var searchPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^search\s+(for\s+)?`),
	regexp.MustCompile(`^find\s+(me\s+)?`),
	regexp.MustCompile(`^show\s+me\s+`),
	regexp.MustCompile(`^look\s+for\s+`),
}

// Parse classifies text. Matching is case-insensitive and checks, in order:
// navigation, clearing, removal, adding, buying and searching. A lone short
// word is taken as a product to add.
func Parse(text string) Command {
	normalized := strings.ToLower(strings.TrimSpace(spaces.ReplaceAllString(text, " ")))
	normalized = strings.TrimRight(normalized, ".!?")
	cmd := Command{Action: ActionUnknown, Text: text}

	switch {
	case normalized == "":
		return cmd
	case isAny(normalized, "go to cart", "open cart", "show cart", "show my cart", "view cart"):
		cmd.Action = ActionShowCart
	case isAny(normalized, "checkout", "check out", "go to checkout", "place order", "place my order"):
		cmd.Action = ActionCheckout
	case isAny(normalized, "clear cart", "clear my cart", "empty cart", "empty my cart"):
		cmd.Action = ActionClear
	case containsAny(normalized, "remove", "delete", "take out", "get rid of"):
		cmd.Action = ActionRemove
		cmd.Phrase = strip(normalized, removePrefixes, removeSuffixes)
	case isAddPhrase(normalized):
		cmd.Action = ActionAdd
		cmd.Phrase = strip(normalized, addPrefixes, addSuffixes)
	case containsAny(normalized, "buy", "purchase", "get me", "i want", "get", "want"):
		cmd.Action = ActionBuy
		cmd.Phrase = strip(normalized, buyPrefixes, buySuffixes)
	case containsAny(normalized, "search", "find", "show me", "look for"):
		cmd.Action = ActionSearch
		cmd.Phrase = strip(normalized, searchPrefixes, nil)
	case len(normalized) < 20 && !strings.Contains(normalized, " "):
		cmd.Action = ActionAdd
		cmd.Phrase = normalized
	}

	if cmd.Phrase == "" && (cmd.Action == ActionAdd || cmd.Action == ActionRemove || cmd.Action == ActionBuy || cmd.Action == ActionSearch) {
		cmd.Action = ActionUnknown
	}

	return cmd
}

// isAddPhrase accepts "add x", the common misrecognition "at x", and "x to cart".
func isAddPhrase(s string) bool {
	if !strings.Contains(s, "add") && !strings.HasPrefix(s, "at ") {
		return false
	}
	return containsAny(s, "to cart", "to my cart", "to the cart") ||
		strings.HasSuffix(s, "cart") ||
		!strings.Contains(s, " to ")
}

func strip(s string, prefixes, suffixes []*regexp.Regexp) string {
	for _, re := range prefixes {
		s = re.ReplaceAllString(s, "")
	}
	for _, re := range suffixes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isAny(s string, options ...string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
