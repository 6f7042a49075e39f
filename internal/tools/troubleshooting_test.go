package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProductType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"laptop", "laptop"},
		{"my Laptop", "laptop"},
		{"headphone", "headphones"},
		{"wireless headphones", "headphones"},
		{"phone", "phone"},
		{"Mobile", "phone"},
		{"smartphone", "phone"},
		{"device", "laptop"},
		{"keyboard", "keyboard"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeProductType(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIssue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"it is not turning on", "not_turning_on"},
		{"Won't turn on at all", "not_turning_on"},
		{"won't power on", "not_turning_on"},
		{"there is no sound", "no_sound"},
		{"I cannot hear anything", "no_sound"},
		{"no audio output", "no_sound"},
		{"keeps overheating", "overheating"},
		{"gets too hot", "overheating"},
		{"screen flickering", "screen_flickering"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeIssue(tc.in), "input %q", tc.in)
	}
}

func TestTroubleshootingKnownIssue(t *testing.T) {
	store := testStore(t)
	out := getTroubleshootingSteps(store, "my laptop", "it is not turning on")
	if out["found"] != true {
		t.Fatalf("expected KB hit, got %v", out)
	}
	steps := out["steps"].([]string)
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	msg := out["message"].(string)
	if !strings.Contains(msg, "1. Check that the charger is plugged in") {
		t.Fatalf("expected numbered steps in message, got %q", msg)
	}
	if !strings.Contains(msg, "troubleshooting steps for your laptop") {
		t.Fatalf("unexpected message header %q", msg)
	}
}

func TestTroubleshootingUnknownProduct(t *testing.T) {
	store := testStore(t)
	out := getTroubleshootingSteps(store, "washing machine", "not turning on")
	if out["found"] != false {
		t.Fatalf("expected miss, got %v", out)
	}
	if out["message"] != "No troubleshooting data found for product type 'washing machine'." {
		t.Fatalf("unexpected message %v", out["message"])
	}
}

func TestTroubleshootingUnknownIssue(t *testing.T) {
	store := testStore(t)
	out := getTroubleshootingSteps(store, "headphones", "screen cracked")
	if out["found"] != false {
		t.Fatalf("expected miss, got %v", out)
	}
	if out["issue_key"] != "screen_cracked" {
		t.Fatalf("unexpected issue key %v", out["issue_key"])
	}
	msg := out["message"].(string)
	if !strings.Contains(msg, "No troubleshooting steps found for issue 'screen_cracked'") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "describe the issue more specifically") {
		t.Fatalf("expected a follow-up suggestion, got %q", msg)
	}
}
