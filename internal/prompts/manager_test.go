package prompts

import (
	"strings"
	"testing"
)

func TestNewPromptManagerLoadsTemplates(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager returned error: %v", err)
	}

	templates := pm.GetTemplates()
	for _, mode := range []string{ModeComplete, ModeExplain} {
		if _, ok := templates[mode]; !ok {
			t.Fatalf("expected %s template to be loaded", mode)
		}
	}
}

func TestBuildCompletePrompt(t *testing.T) {
	pm, _ := NewPromptManager()

	prompt, err := pm.BuildPrompt(ModeComplete, Data{Code: "const x = {{y}}", Language: "python"})
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}
	if !strings.Contains(prompt.User, "Complete this python code") {
		t.Fatalf("expected language in prompt, got %q", prompt.User)
	}
	if !strings.Contains(prompt.User, "const x = {{y}}") {
		t.Fatalf("expected code to be included verbatim, got %q", prompt.User)
	}
	if !strings.HasPrefix(prompt.System, "You are a code completion assistant") {
		t.Fatalf("unexpected system prompt %q", prompt.System)
	}
	if prompt.MaxTokens != 1000 || prompt.Temperature != 0.1 {
		t.Fatalf("unexpected sampling settings %+v", prompt)
	}
}

func TestBuildExplainPrompt(t *testing.T) {
	pm, _ := NewPromptManager()

	prompt, err := pm.BuildPrompt(ModeExplain, Data{Code: "print(1)"})
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}
	if !strings.Contains(prompt.User, "Explain this code in simple terms") || !strings.Contains(prompt.User, "print(1)") {
		t.Fatalf("unexpected explain prompt %q", prompt.User)
	}
	if prompt.MaxTokens != 500 || prompt.Temperature != 0.3 {
		t.Fatalf("unexpected sampling settings %+v", prompt)
	}
}

func TestBuildPromptUnknownMode(t *testing.T) {
	pm, _ := NewPromptManager()
	if _, err := pm.BuildPrompt("refactor", Data{}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
