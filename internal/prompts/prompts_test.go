package prompts_test

import (
	"strings"
	"testing"

	"github.com/temirov/hokuspokus/internal/prompts"
	"github.com/temirov/hokuspokus/internal/response"
)

const (
	sampleInput   = "list files in the current directory"
	sampleContext = "File: main.ts\nconst x=1;"
)

func buildAll() map[prompts.Kind]prompts.Request {
	return map[prompts.Kind]prompts.Request{
		prompts.KindTranslateToCommand: prompts.TranslateToCommand(sampleInput, ""),
		prompts.KindManualLookup:       prompts.ManualLookup(sampleInput),
		prompts.KindScriptGeneration:   prompts.ScriptGeneration(sampleInput),
		prompts.KindCodeSnippet:        prompts.CodeSnippet(sampleInput),
		prompts.KindBriefAnswer:        prompts.BriefAnswer(sampleInput),
		prompts.KindDetailedAnswer:     prompts.DetailedAnswer(sampleInput, "ls"),
		prompts.KindCodeReview:         prompts.CodeReview(sampleInput),
		prompts.KindDebugAssistance:    prompts.DebugAssistance(sampleInput, sampleContext),
		prompts.KindDevelopmentPlan:    prompts.DevelopmentPlan(sampleInput, sampleContext),
	}
}

func TestEveryBuilderEmbedsSentinelAndInput(t *testing.T) {
	requests := buildAll()
	if len(requests) != len(prompts.Kinds) {
		t.Fatalf("expected %d builders, got %d", len(prompts.Kinds), len(requests))
	}
	for _, kind := range prompts.Kinds {
		request, found := requests[kind]
		if !found {
			t.Fatalf("no builder exercised for %s", kind)
		}
		if request.Kind() != kind {
			t.Fatalf("expected kind %s, got %s", kind, request.Kind())
		}
		if !strings.Contains(request.Text(), "'"+response.UnclearSentinel+"'") {
			t.Fatalf("%s prompt does not embed the sentinel: %q", kind, request.Text())
		}
		if !strings.Contains(request.Text(), sampleInput) {
			t.Fatalf("%s prompt does not embed the user input verbatim", kind)
		}
	}
}

func TestBuildersAreDeterministic(t *testing.T) {
	first := buildAll()
	second := buildAll()
	for kind, request := range first {
		if request.Text() != second[kind].Text() {
			t.Fatalf("%s prompt differs between builds", kind)
		}
	}
}

func TestTranslateToCommandToolHint(t *testing.T) {
	withTool := prompts.TranslateToCommand("list buckets", "aws")
	if !strings.Contains(withTool.Text(), "for the aws CLI") {
		t.Fatalf("expected tool hint in prompt: %q", withTool.Text())
	}
	withoutTool := prompts.TranslateToCommand("list buckets", "  ")
	if !strings.Contains(withoutTool.Text(), "for the shell CLI") {
		t.Fatalf("expected default tool in prompt: %q", withoutTool.Text())
	}
}

func TestCodeReviewListsEveryArea(t *testing.T) {
	text := prompts.CodeReview("diff --git a/x b/x").Text()
	for _, area := range []string{"Code Quality", "Coding Style", "SOLID and DRY", "Readability", "Refactoring", "Unit Testing"} {
		if !strings.Contains(text, area) {
			t.Fatalf("code review prompt misses %q", area)
		}
	}
}

func TestContextTasksEmbedProjectContext(t *testing.T) {
	for _, request := range []prompts.Request{
		prompts.DebugAssistance("TypeError", sampleContext),
		prompts.DevelopmentPlan("add login", sampleContext),
	} {
		if !strings.Contains(request.Text(), sampleContext) {
			t.Fatalf("%s prompt does not embed the project context", request.Kind())
		}
	}
}
