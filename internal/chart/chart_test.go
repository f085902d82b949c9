package chart

import (
	"strings"
	"testing"

	"github.com/ba0f3/persp/internal/diversity"
)

func TestDisplayLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"criteria-based", "5-shot-criteria-based"},
		{"free-form", "5-shot-free-form"},
		{"1-shot-criteria-based", "1-shot-criteria-based"},
		{"1-shot-free-form", "1-shot-free-form"},
		{"custom", "custom"},
	}
	for _, tt := range tests {
		if got := DisplayLabel(tt.in); got != tt.want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTopicLabel(t *testing.T) {
	if got := TopicLabel("campus_protests"); got != "campus protests" {
		t.Errorf("TopicLabel = %q", got)
	}
}

func TestRender(t *testing.T) {
	results := []diversity.Result{
		{Approach: "criteria-based", Topic: "elections", Score: 0.31},
		{Approach: "free-form", Topic: "elections", Score: 0.45},
		{Approach: "criteria-based", Topic: "littering", Score: 0.28},
	}

	var sb strings.Builder
	if err := Render(&sb, results, []string{"elections", "littering"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := sb.String()
	for _, want := range []string{"5-shot-criteria-based", "5-shot-free-form", "elections", "littering"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
	if strings.Contains(html, "1-shot-criteria-based") {
		t.Error("absent approach should not appear as a series")
	}
}

func TestRenderEmpty(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, nil, nil); err == nil {
		t.Error("expected error for empty results")
	}
}
