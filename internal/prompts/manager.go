package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const (
	ModeComplete = "complete"
	ModeExplain  = "explain"
)

// Template is one prompt file as stored on disk.
type Template struct {
	SystemPrompt string  `yaml:"system_prompt"`
	UserPrompt   string  `yaml:"user_prompt"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
}

// Prompt is a rendered template ready to send upstream.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Data is what user prompts may reference.
type Data struct {
	Code     string
	Language string
}

type PromptProvider interface {
	BuildPrompt(mode string, data Data) (*Prompt, error)
	GetTemplates() map[string]Template
}

type compiled struct {
	tmpl Template
	user *template.Template
}

type PromptManager struct {
	prompts map[string]compiled
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[string]compiled)}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

func (pm *PromptManager) BuildPrompt(mode string, data Data) (*Prompt, error) {
	c, ok := pm.prompts[mode]
	if !ok {
		return nil, fmt.Errorf("template not found for mode: %s", mode)
	}

	var buf bytes.Buffer
	if err := c.user.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s prompt: %w", mode, err)
	}

	return &Prompt{
		System:      strings.TrimSpace(c.tmpl.SystemPrompt),
		User:        buf.String(),
		MaxTokens:   c.tmpl.MaxTokens,
		Temperature: c.tmpl.Temperature,
	}, nil
}

func (pm *PromptManager) GetTemplates() map[string]Template {
	out := make(map[string]Template, len(pm.prompts))
	for name, c := range pm.prompts {
		out[name] = c.tmpl
	}
	return out
}

func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl Template
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		user, err := template.New(name).Option("missingkey=error").Parse(tmpl.UserPrompt)
		if err != nil {
			return fmt.Errorf("failed to compile template %s: %w", entry.Name(), err)
		}
		pm.prompts[name] = compiled{tmpl: tmpl, user: user}
	}
	return nil
}
