package guardrails

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateBlocks(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		reason Reason
	}{
		{"empty", "", ReasonEmpty},
		{"whitespace only", "   \t\n  ", ReasonEmpty},
		{"safety single word", "where can I buy a gun", ReasonSafety},
		{"safety phrase", "I want to kill myself", ReasonSafety},
		{"safety wins over domain keywords", "refund my order or I will plant a bomb", ReasonSafety},
		{"inappropriate phrase", "will you date me", ReasonInappropriate},
		{"inappropriate word", "send nudes", ReasonInappropriate},
		{"gibberish", "asdkjasd alkjd", ReasonOutOfDomain},
		{"unrelated topic", "what is the capital of France", ReasonOutOfDomain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Evaluate(tc.input)
			assert.False(t, res.Allowed)
			assert.Equal(t, tc.reason, res.Reason)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestEvaluateAllows(t *testing.T) {
	cases := []string{
		"Where is my order ORD1002?",
		"Can I return my laptop?",
		"show me headphones under 4000",
		"what is your refund policy",
		"hello",
		"Thanks a lot!",
		"what day is it",
		"ORD1003",
		"My phone is overheating",
		"Can you update me on my order ORD1001?",
	}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			res := Evaluate(input)
			assert.True(t, res.Allowed, "expected %q to pass", input)
			assert.Equal(t, ReasonNone, res.Reason)
			assert.Empty(t, res.Message)
		})
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	res := Evaluate("WHERE IS MY ORDER")
	assert.True(t, res.Allowed)

	res = Evaluate("GUN")
	assert.False(t, res.Allowed)
	assert.Equal(t, ReasonSafety, res.Reason)
}

func TestShortWordsMatchWholeWordsOnly(t *testing.T) {
	// "hi" must not fire inside "this" or "shipment history".
	res := Evaluate("this thing about my order")
	assert.True(t, res.Allowed)

	res = Evaluate("hi")
	assert.True(t, res.Allowed)
}

func TestPhrasesMatchWordSequencesOnly(t *testing.T) {
	// "date me" must not fire inside "update me".
	res := Evaluate("please update me on my delivery")
	assert.True(t, res.Allowed)

	res = Evaluate("will you date me")
	assert.False(t, res.Allowed)
	assert.Equal(t, ReasonInappropriate, res.Reason)
}

func TestSafetyPrecedence(t *testing.T) {
	// Every safety keyword blocks even when the rest of the message is
	// squarely in-domain.
	for _, kw := range SafetyKeywords {
		msg := "I want a refund for my order, also " + kw
		res := Evaluate(msg)
		if res.Allowed || res.Reason != ReasonSafety {
			t.Fatalf("keyword %q: got %+v", kw, res)
		}
		if !strings.Contains(res.Message, "helpline") {
			t.Fatalf("safety message should point to help resources, got %q", res.Message)
		}
	}
}
