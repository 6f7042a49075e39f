package agent

import (
	"fmt"
	"strings"
)

const assistantName = "Antigravity Electronics"

// authPrompt is the short-circuit answer for identity-bound intents when no
// user is resolved.
const authPrompt = "To help with your order, return, refund, or warranty query, " +
	"I need to identify you. You can either:\n" +
	"1. Log in to your account (top right), OR\n" +
	"2. Provide your User ID (e.g., U001, U002)\n\n" +
	"If you don't know your User ID, you can ask me to look it up by email."

// noAPIKeyAnswer is the single hard-stop response for a missing model
// credential.
const noAPIKeyAnswer = "The assistant is not configured with a model API key. " +
	"Set LLM_API_KEY in the environment or .env file and restart the service."

const degradedAnswer = "I gathered some information but encountered an issue generating " +
	"the final response. Please try rephrasing your question."

const fallbackTroubleAnswer = "I'm having trouble answering that right now. Please try rephrasing."

func systemPrompt(userID, sessionID, today string, toolNames []string) string {
	var userContext string
	if userID != "" {
		userContext = fmt.Sprintf(`USER CONTEXT:
The user is logged in as user_id: %[1]s.

Rules:
1. When the user asks about "my orders", "my order", "return my laptop", and similar, call find_orders_by_user_id with user_id="%[1]s" first.
2. Do not ask the user for their user ID. You already have it.`, userID)
	} else {
		userContext = `USER CONTEXT:
The user is NOT logged in (anonymous session).

For personalized queries (orders, returns, refunds, warranty), politely ask them to log in or provide their user ID (e.g., U001).`
	}

	return fmt.Sprintf(`You are a support assistant for %s, an electronics store.

%s

Current context:
- Today's date: %s
- Session ID: %s

Your capabilities:
1. Track orders and shipments
2. Check return and refund eligibility
3. Verify warranty status
4. Recommend products
5. Troubleshoot device issues
6. Answer policy questions

Guidelines:
- Use the available tools to get accurate information; chain tool calls when needed (for example find the user's orders, then check return eligibility).
- Be concise, helpful and friendly.
- For complex issues beyond your tools, suggest escalation to the support team.

Available tools: %s`,
		assistantName, userContext, today, sessionID, strings.Join(toolNames, ", "))
}
