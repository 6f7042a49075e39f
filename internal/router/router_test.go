package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		intent Intent
	}{
		{"order status by phrase", "Where is my order ORD1002?", IntentOrderStatus},
		{"order status by tracking", "order tracking please", IntentOrderStatus},
		{"order id plus status", "status of ORD1004", IntentOrderStatus},
		{"policy", "what is your return policy", IntentPolicyQuestion},
		{"refund", "I want a refund for ORD1001", IntentRefund},
		{"refund beats return when policy absent", "refund my returned item", IntentRefund},
		{"return", "Can I return my laptop order ORD1001?", IntentReturnEligibility},
		{"exchange", "exchange my keyboard", IntentReturnEligibility},
		{"warranty", "is my laptop still under warranty", IntentWarrantyStatus},
		{"product search with category", "show me laptops under 60000", IntentProductSearch},
		{"product search catalogue", "what do you offer", IntentProductSearch},
		{"product search sell", "what products do you sell", IntentProductSearch},
		{"troubleshooting", "my laptop is not turning on", IntentTroubleshooting},
		{"troubleshooting beats chitchat", "great, my laptop is not working properly", IntentTroubleshooting},
		{"no sound", "My headphones have no sound", IntentTroubleshooting},
		{"chitchat greeting", "hello", IntentChitchat},
		{"chitchat thanks", "thanks a lot!", IntentChitchat},
		{"chitchat how are you", "how are you doing today", IntentChitchat},
		{"date query", "what day is it", IntentDateQuery},
		{"default", "do you ship to Pune", IntentGeneralRAG},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.intent, Detect(tc.input).Intent, "input %q", tc.input)
		})
	}
}

func TestDetectSlots(t *testing.T) {
	res := Detect("Where is my order ORD1002?")
	assert.Equal(t, "ORD1002", res.OrderID)

	res = Detect("status of ord1004 please")
	assert.Equal(t, "ORD1004", res.OrderID, "order id is normalized to uppercase")

	res = Detect("show me laptops under 60000")
	assert.Equal(t, "laptop", res.Category)
	if assert.NotNil(t, res.MaxPrice) {
		assert.Equal(t, 60000.0, *res.MaxPrice)
	}

	res = Detect("headphones below 4000 rupees")
	assert.Equal(t, "headphones", res.Category)
	if assert.NotNil(t, res.MaxPrice) {
		assert.Equal(t, 4000.0, *res.MaxPrice)
	}

	res = Detect("what do you offer")
	assert.Equal(t, "", res.Category, "catalogue questions leave category unset")
}

func TestOrderIDAbsent(t *testing.T) {
	for _, msg := range []string{
		"Can I return my laptop?",
		"what is your shipping policy",
		"hello there",
		"my order number is 12345", // bare digits are not an order id
	} {
		assert.Empty(t, Detect(msg).OrderID, "input %q", msg)
	}
}

func TestExtractMaxPrice(t *testing.T) {
	cases := []struct {
		input string
		want  *float64
	}{
		{"under 60000", f(60000)},
		{"below 5000", f(5000)},
		{"less than 2000 rupees", f(2000)},
		{"up to 999", f(999)},
		{"upto 1500", f(1500)},
		{"no limit here", nil},
		{"under the weather", nil},
	}
	for _, tc := range cases {
		got := ExtractMaxPrice(tc.input)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.input)
		} else if assert.NotNil(t, got, "input %q", tc.input) {
			assert.Equal(t, *tc.want, *got, "input %q", tc.input)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"gaming laptops", "laptop"},
		{"a wireless headset", "headphones"},
		{"need a new mouse", "mouse"},
		{"mechanical key board", "keyboard"},
		{"smartphone deals", "phone"},
		{"a charger", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectCategory(tc.input), "input %q", tc.input)
	}
}

func TestChitchatWholeWordMatching(t *testing.T) {
	// "hi" must not fire inside unrelated words.
	assert.Equal(t, IntentGeneralRAG, Detect("this shipment question").Intent)
	assert.Equal(t, IntentChitchat, Detect("hi").Intent)
}

func f(v float64) *float64 { return &v }
