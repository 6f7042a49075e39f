package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

// NormalizeProductType canonicalizes free-form product descriptions to the
// knowledge base keys. A generic "device" is treated as a laptop.
func NormalizeProductType(productType string) string {
	pt := strings.ToLower(strings.TrimSpace(productType))
	switch {
	case strings.Contains(pt, "laptop"):
		return "laptop"
	case strings.Contains(pt, "headphone"):
		return "headphones"
	case strings.Contains(pt, "phone"), strings.Contains(pt, "mobile"):
		return "phone"
	case strings.Contains(pt, "device"):
		return "laptop"
	}
	return pt
}

// NormalizeIssue maps a natural-language issue description to a KB issue key.
func NormalizeIssue(issue string) string {
	text := strings.ToLower(issue)
	switch {
	case strings.Contains(text, "not turning on"),
		strings.Contains(text, "won't turn on"),
		strings.Contains(text, "does not turn on"),
		strings.Contains(text, "won't power on"):
		return "not_turning_on"
	case strings.Contains(text, "no sound"),
		strings.Contains(text, "cannot hear"),
		strings.Contains(text, "no audio"):
		return "no_sound"
	case strings.Contains(text, "overheating"),
		strings.Contains(text, "too hot"):
		return "overheating"
	}
	return strings.ToLower(strings.ReplaceAll(issue, " ", "_"))
}

// RegisterTroubleshootingTools adds get_troubleshooting_steps.
func RegisterTroubleshootingTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "get_troubleshooting_steps",
		Description: "Get troubleshooting steps for common device issues.",
		Parameters: toolParams(
			map[string]interface{}{
				"product_type": map[string]interface{}{
					"type":        "string",
					"description": "Type of product: laptop, headphones, mouse, keyboard",
				},
				"issue": map[string]interface{}{
					"type":        "string",
					"description": "Description of the issue the user is facing",
				},
			},
			[]string{"product_type", "issue"},
		),
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			return getTroubleshootingSteps(store, args.String("product_type"), args.String("issue")), nil
		},
	})
}

func getTroubleshootingSteps(store *catalog.Store, productType, issue string) map[string]interface{} {
	product := NormalizeProductType(productType)
	issueKey := NormalizeIssue(issue)

	entry, ok := store.Troubleshooting()[product]
	if !ok {
		return map[string]interface{}{
			"found":        false,
			"product_type": product,
			"issue_key":    issueKey,
			"steps":        []string{},
			"message":      fmt.Sprintf("No troubleshooting data found for product type '%s'.", product),
		}
	}

	steps := entry[issueKey]
	if len(steps) == 0 {
		return map[string]interface{}{
			"found":        false,
			"product_type": product,
			"issue_key":    issueKey,
			"steps":        []string{},
			"message": fmt.Sprintf("No troubleshooting steps found for issue '%s' on '%s'. "+
				"Could you describe the issue more specifically?", issueKey, product),
		}
	}

	lines := []string{fmt.Sprintf("Here are some troubleshooting steps for your %s (%s):", product, issue)}
	for i, step := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}

	return map[string]interface{}{
		"found":        true,
		"product_type": product,
		"issue_key":    issueKey,
		"steps":        steps,
		"message":      strings.Join(lines, "\n"),
	}
}
