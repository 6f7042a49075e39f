// Package guardrails pre-filters inbound messages before any model or tool
// work happens. The rules are a short ordered pipeline evaluated first-match:
// empty input, safety blocklist, inappropriate-content blocklist, and a
// coarse domain-relevance check. The keyword lists are configuration, not a
// classifier; false positives and negatives are expected.
package guardrails

import (
	"regexp"
	"strings"
	"unicode"
)

// Reason identifies why a message was blocked.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonEmpty         Reason = "empty"
	ReasonSafety        Reason = "safety"
	ReasonInappropriate Reason = "inappropriate"
	ReasonOutOfDomain   Reason = "out_of_domain"
)

// Result is the outcome of evaluating one message.
type Result struct {
	Allowed bool
	Message string
	Reason  Reason
}

// SafetyKeywords block regardless of any other content in the message.
var SafetyKeywords = []string{
	"suicide",
	"kill myself",
	"harm myself",
	"hurt myself",
	"bomb",
	"terrorist",
	"gun",
	"guns",
	"weapon",
	"weapons",
}

// InappropriateKeywords block romantic or sexual solicitation.
var InappropriateKeywords = []string{
	"nude",
	"nudes",
	"send nudes",
	"sexual",
	"sext",
	"sexting",
	"date me",
	"marry me",
	"be my girlfriend",
	"be my boyfriend",
	"dirty talk",
}

// DomainKeywords mark a message as belonging to the support domain.
var DomainKeywords = []string{
	"order", "orders",
	"refund", "refunds",
	"return", "returns",
	"exchange", "replacement", "replace",
	"warranty", "guarantee",
	"shipping", "shipped",
	"delivery", "delivered",
	"tracking", "track",
	"cart", "checkout", "payment", "invoice",
	"product", "products",
	"laptop", "laptops",
	"headphone", "headphones", "headset",
	"mouse", "mice",
	"keyboard", "keyboards",
	"phone", "phones", "mobile", "smartphone",
	"device", "support", "policy", "price",
	"buy", "purchase",
	"broken", "working", "sound", "overheating", "charging",
}

// ConversationalKeywords keep small talk and simple questions from being
// rejected as off-topic; the router handles them downstream.
var ConversationalKeywords = []string{
	"hi", "hello", "hey",
	"how are you", "how r you",
	"who are you", "what can you do",
	"thanks", "thank you",
	"good morning", "good afternoon", "good evening",
	"bye", "goodbye",
	"date today", "today's date", "what day is it",
	"help", "yes", "no", "ok", "okay",
}

// Order ids are always on-topic even without any other domain keyword.
var orderIDPattern = regexp.MustCompile(`\bord\d+\b`)

type rule struct {
	reason  Reason
	matches func(text string, words []string) bool
	message string
}

// rules run in order; the first match wins. The safety rule sits above the
// domain rule so a threatening message with domain keywords is still blocked.
var rules = []rule{
	{
		reason: ReasonEmpty,
		matches: func(text string, _ []string) bool {
			return text == ""
		},
		message: "Please enter a question related to your orders, products, " +
			"returns, refunds, or warranty.",
	},
	{
		reason: ReasonSafety,
		matches: func(text string, words []string) bool {
			return matchAny(words,SafetyKeywords)
		},
		message: "I'm not able to help with that topic. " +
			"If you are in distress or feel unsafe, please reach out to trusted people around you " +
			"or contact local emergency services or a helpline.",
	},
	{
		reason: ReasonInappropriate,
		matches: func(text string, words []string) bool {
			return matchAny(words,InappropriateKeywords)
		},
		message: "I can only help with shopping, orders, returns, refunds, " +
			"warranty, and product questions. Let's keep things on topic.",
	},
	{
		reason: ReasonOutOfDomain,
		matches: func(text string, words []string) bool {
			if orderIDPattern.MatchString(text) {
				return false
			}
			return !matchAny(words,DomainKeywords) &&
				!matchAny(words,ConversationalKeywords)
		},
		message: "I can help with orders, products, returns, refunds, warranty, " +
			"and troubleshooting questions. Could you rephrase your question " +
			"about one of those topics?",
	},
}

// Evaluate applies the guardrail rules to a raw user message. It is pure and
// total: any string, including the empty string, yields a Result.
func Evaluate(raw string) Result {
	text := strings.ToLower(strings.TrimSpace(raw))
	words := splitWords(text)
	for _, r := range rules {
		if r.matches(text, words) {
			return Result{Allowed: false, Message: r.message, Reason: r.reason}
		}
	}
	return Result{Allowed: true}
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// matchAny matches keywords as whole-word sequences against the message, so
// "hi" does not fire inside "this" and "date me" does not fire inside
// "update me".
func matchAny(words []string, keywords []string) bool {
	padded := " " + strings.Join(words, " ") + " "
	for _, kw := range keywords {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}
