// Package router maps free-form customer messages to a coarse intent label
// plus extracted slots (order id, product category, price ceiling). The
// cascade is deterministic: rules run in a fixed priority order and the first
// match wins.
package router

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the coarse category of a user request.
type Intent string

const (
	IntentOrderStatus       Intent = "order_status"
	IntentReturnEligibility Intent = "return_eligibility"
	IntentRefund            Intent = "refund"
	IntentWarrantyStatus    Intent = "warranty_status"
	IntentProductSearch     Intent = "product_search"
	IntentPolicyQuestion    Intent = "policy_question"
	IntentTroubleshooting   Intent = "troubleshooting"
	IntentChitchat          Intent = "chitchat"
	IntentDateQuery         Intent = "date_query"
	IntentGeneralRAG        Intent = "general_rag"
)

// PrivateIntents require a resolved user identity before tools touch
// account-bound data.
var PrivateIntents = map[Intent]bool{
	IntentOrderStatus:       true,
	IntentReturnEligibility: true,
	IntentRefund:            true,
	IntentWarrantyStatus:    true,
}

// Result carries the detected intent and any slots found in the message.
// Slots are extracted independently of the cascade; absence is not an error.
type Result struct {
	Intent   Intent   `json:"intent"`
	OrderID  string   `json:"order_id,omitempty"`
	Category string   `json:"category,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

var (
	orderIDPattern = regexp.MustCompile(`(?i)\bORD\d+\b`)
	numberPattern  = regexp.MustCompile(`\d+`)
)

// ExtractOrderID returns the first order-id token in the text, uppercased,
// or the empty string.
func ExtractOrderID(text string) string {
	return strings.ToUpper(orderIDPattern.FindString(text))
}

// priceKeywords introduce a price ceiling; the first number within a short
// window after the keyword is taken as the limit.
var priceKeywords = []string{"under", "below", "less than", "<", "upto", "up to"}

// ExtractMaxPrice scans for phrases like "under 60000" and returns the
// ceiling, or nil when none is found.
func ExtractMaxPrice(text string) *float64 {
	lowered := strings.ToLower(text)
	for _, kw := range priceKeywords {
		idx := strings.Index(lowered, kw)
		if idx < 0 {
			continue
		}
		window := lowered[idx:]
		if len(window) > 30 {
			window = window[:30]
		}
		num := numberPattern.FindString(window)
		if num == "" {
			continue
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// categoryKeywords maps mention keywords to canonical catalog categories.
var categoryKeywords = []struct {
	words    []string
	category string
}{
	{[]string{"laptop", "laptops"}, "laptop"},
	{[]string{"headphone", "headphones", "headset"}, "headphones"},
	{[]string{"mouse", "mice"}, "mouse"},
	{[]string{"keyboard", "key board"}, "keyboard"},
	{[]string{"phone", "mobile", "smartphone"}, "phone"},
}

// DetectCategory maps a product mention to a coarse category, or returns the
// empty string.
func DetectCategory(text string) string {
	lowered := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(lowered, w) {
				return entry.category
			}
		}
	}
	return ""
}

// Issue descriptions are checked before chitchat so that "great, my laptop is
// not working properly" does not get swallowed by the "great"/"thanks" path.
var troubleshootingPhrases = []string{
	"not turning on",
	"won't turn on",
	"does not turn on",
	"doesn't turn on",
	"won't power on",
	"no sound",
	"not working",
	"stopped working",
	"stop working",
	"broken",
	"issue with",
	"problem with",
	"overheating",
}

var chitchatPhrases = []string{
	"hi", "hello", "hey",
	"how are you", "how r you",
	"who are you", "what can you do",
	"thanks", "thank you",
	"good morning", "good evening",
}

var dateQueryPhrases = []string{
	"date today",
	"today's date",
	"what day is it",
}

var policyPhrases = []string{
	"return policy", "shipping policy", "refund policy", "policy",
}

var refundPhrases = []string{
	"refund", "money back", "get my money", "refund status",
}

var returnPhrases = []string{
	"return", "exchange", "replace", "replacement",
}

var warrantyPhrases = []string{
	"warranty", "guarantee",
}

var searchVerbs = []string{
	"suggest", "recommend", "show me", "find", "looking for",
	"under", "below", "tell me about", "have in store", "available",
	"all the", "sell",
	"best", "good for", "suitable for", "ideal for",
}

var cataloguePhrases = []string{
	"catalog", "catalogue",
	"what do you offer", "what all you offer", "what all you have",
	"what products", "all products", "products you sell",
}

// intentRules is the priority-ordered cascade. Each predicate sees the
// lowered message; the first one that fires decides the intent.
var intentRules = []struct {
	intent  Intent
	matches func(lowered string) bool
}{
	{IntentTroubleshooting, func(l string) bool {
		return containsAnyPhrase(l, troubleshootingPhrases)
	}},
	{IntentChitchat, func(l string) bool {
		return matchPhrases(l, chitchatPhrases)
	}},
	{IntentDateQuery, func(l string) bool {
		return containsAnyPhrase(l, dateQueryPhrases)
	}},
	{IntentOrderStatus, func(l string) bool {
		if strings.Contains(l, "where is my order") || strings.Contains(l, "track my order") {
			return true
		}
		hasStatus := strings.Contains(l, "status") || strings.Contains(l, "tracking")
		if strings.Contains(l, "order") && hasStatus {
			return true
		}
		return orderIDPattern.MatchString(l) && strings.Contains(l, "status")
	}},
	{IntentPolicyQuestion, func(l string) bool {
		return containsAnyPhrase(l, policyPhrases)
	}},
	{IntentRefund, func(l string) bool {
		return containsAnyPhrase(l, refundPhrases)
	}},
	{IntentReturnEligibility, func(l string) bool {
		return containsAnyPhrase(l, returnPhrases)
	}},
	{IntentWarrantyStatus, func(l string) bool {
		return containsAnyPhrase(l, warrantyPhrases)
	}},
	{IntentProductSearch, func(l string) bool {
		if DetectCategory(l) != "" && containsAnyPhrase(l, searchVerbs) {
			return true
		}
		if containsAnyPhrase(l, cataloguePhrases) {
			return true
		}
		return strings.Contains(l, "products") && strings.Contains(l, "sell")
	}},
}

// Detect runs the intent cascade and slot extraction over one message.
func Detect(message string) Result {
	text := strings.TrimSpace(message)
	lowered := strings.ToLower(text)

	res := Result{Intent: IntentGeneralRAG}
	for _, rule := range intentRules {
		if rule.matches(lowered) {
			res.Intent = rule.intent
			break
		}
	}

	switch res.Intent {
	case IntentChitchat, IntentDateQuery:
		// No slots for built-in intents.
	default:
		res.OrderID = ExtractOrderID(text)
		res.Category = DetectCategory(text)
		res.MaxPrice = ExtractMaxPrice(text)
	}
	return res
}

func containsAnyPhrase(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// matchPhrases is stricter than containsAnyPhrase: single-word entries must
// appear as whole words, so "hi" does not fire inside "this" or "shipping".
func matchPhrases(lowered string, phrases []string) bool {
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	for _, p := range phrases {
		if strings.ContainsRune(p, ' ') {
			if strings.Contains(lowered, p) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == p {
				return true
			}
		}
	}
	return false
}
