package agent

import "strings"

// chitchatAnswer returns the canned reply for small talk. The match order
// mirrors the router's chitchat phrases, from the most specific down to a
// generic greeting.
func chitchatAnswer(message string) string {
	lowered := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.Contains(lowered, "how are you"), strings.Contains(lowered, "how r you"):
		return "I'm doing great and ready to help you! How can I assist you today?"
	case strings.Contains(lowered, "who are you"):
		return "I'm an AI assistant for " + assistantName + ". I can help with " +
			"orders, returns, refunds, warranty, product recommendations, and troubleshooting."
	case strings.Contains(lowered, "what can you do"):
		return "I can help you:\n" +
			"- Track orders and check delivery status\n" +
			"- Check return and refund eligibility\n" +
			"- Look up warranty information\n" +
			"- Suggest products based on your needs\n" +
			"- Assist with device troubleshooting\n" +
			"- Answer questions about our policies"
	case strings.Contains(lowered, "thank"):
		return "You're welcome! Feel free to ask if you need anything else."
	default:
		return "Hi! I'm here to help with orders, products, returns, refunds, and more. What can I do for you?"
	}
}
