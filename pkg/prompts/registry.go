// Package prompts implements a file-backed prompt template store
// (~/.mcp/prompts/*.json) and adapts it onto the registry.Prompts /
// protocol.Prompt shapes the engine and registry packages expect.
package prompts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
)

// StoredPrompt is the on-disk template shape: richer than protocol.Prompt
// (it carries the literal {{placeholder}} content, tags and free-form
// metadata alongside the wire-visible name/description/arguments).
type StoredPrompt struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Content     string                    `json:"content"`
	Tags        []string                  `json:"tags,omitempty"`
	Variables   map[string]VariableSpec   `json:"variables,omitempty"`
	Metadata    map[string]interface{}    `json:"metadata,omitempty"`
}

// VariableSpec describes one {{placeholder}} a stored prompt's content
// expects to have substituted.
type VariableSpec struct {
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ToProtocolPrompt converts the stored template into the wire-visible
// prompts/list entry.
func (p *StoredPrompt) ToProtocolPrompt() protocol.Prompt {
	args := make([]protocol.PromptArgument, 0, len(p.Variables))
	for name, spec := range p.Variables {
		args = append(args, protocol.PromptArgument{
			Name:        name,
			Description: spec.Description,
			Required:    spec.Required,
		})
	}
	return protocol.Prompt{
		Name:        p.ID,
		Description: p.Description,
		Arguments:   args,
	}
}

// Render substitutes each {{key}} placeholder in Content with the matching
// argument value and wraps the result as a single user-role GetPromptResult
// message.
func (p *StoredPrompt) Render(arguments map[string]string) protocol.GetPromptResult {
	content := p.Content
	for key, value := range arguments {
		content = strings.ReplaceAll(content, fmt.Sprintf("{{%s}}", key), value)
	}
	return protocol.GetPromptResult{
		Description: p.Description,
		Messages: []protocol.PromptMessage{
			{Role: "user", Content: protocol.TextContent(content)},
		},
	}
}

// Registry manages the storage and retrieval of prompt templates for MCP.
type Registry struct {
	baseDir string
}

// PromptRegistry is kept as the teacher's original exported name.
type PromptRegistry = Registry

// NewPromptRegistry creates a new prompt registry rooted at ~/.mcp/prompts.
func NewPromptRegistry() *Registry {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Error("Failed to get user home directory", err)
		homeDir = "."
	}

	baseDir := filepath.Join(homeDir, ".mcp", "prompts")

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		logger.Error("Failed to create prompt registry directory", err)
	}

	registry := &Registry{baseDir: baseDir}
	registry.ensureSamplePrompts()
	return registry
}

// GetPromptPath returns the file path for a prompt ID.
func (pr *Registry) GetPromptPath(id string) (string, error) {
	if strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return "", fmt.Errorf("invalid prompt ID format: %s", id)
	}
	return filepath.Join(pr.baseDir, fmt.Sprintf("%s.json", id)), nil
}

// GetPrompt retrieves a stored prompt template by ID.
func (pr *Registry) GetPrompt(id string) (*StoredPrompt, error) {
	path, err := pr.GetPromptPath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("prompt not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var prompt StoredPrompt
	if err := json.Unmarshal(data, &prompt); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}
	return &prompt, nil
}

// ListPrompts returns every stored prompt template.
func (pr *Registry) ListPrompts() ([]StoredPrompt, error) {
	var prompts []StoredPrompt

	err := filepath.WalkDir(pr.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			id := strings.TrimSuffix(d.Name(), ".json")
			prompt, err := pr.GetPrompt(id)
			if err != nil {
				logger.Warn("Failed to read prompt", id, err)
				return nil
			}
			prompts = append(prompts, *prompt)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return prompts, nil
}

// SavePrompt writes a stored prompt template to disk.
func (pr *Registry) SavePrompt(prompt *StoredPrompt) error {
	if prompt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}

	path, err := pr.GetPromptPath(prompt.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(prompt, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prompt: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}
	return nil
}

// DeletePrompt removes a stored prompt template.
func (pr *Registry) DeletePrompt(id string) error {
	path, err := pr.GetPromptPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("prompt not found: %s", id)
		}
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	return nil
}

func (pr *Registry) ensureSamplePrompts() {
	samplePrompts := []*StoredPrompt{
		{
			ID:          "code-review",
			Name:        "Code Review",
			Description: "Review code for best practices, bugs, and improvements",
			Content:     "Please review the following {{language}} code for:\n- Best practices\n- Potential bugs\n- Performance improvements\n- Security issues\n\nCode:\n```{{language}}\n{{code}}\n```",
			Tags:        []string{"development", "review", "code-quality"},
			Variables: map[string]VariableSpec{
				"language": {Description: "Programming language of the code", Required: true},
				"code":     {Description: "The code to review", Required: true},
			},
			Metadata: map[string]interface{}{"author": "MCP Server", "version": "1.0.0", "category": "development"},
		},
		{
			ID:          "explain-concept",
			Name:        "Explain Technical Concept",
			Description: "Explain a technical concept in simple terms",
			Content:     "Please explain {{concept}} in simple terms that a {{audience}} would understand. Include:\n- What it is\n- Why it's important\n- How it works\n- Real-world examples\n\nAdjust the explanation level for: {{audience}}",
			Tags:        []string{"education", "explanation", "technical"},
			Variables: map[string]VariableSpec{
				"concept":  {Description: "The technical concept to explain", Required: true},
				"audience": {Description: "Target audience (e.g., beginner, intermediate, expert)", Required: false},
			},
			Metadata: map[string]interface{}{"author": "MCP Server", "version": "1.0.0", "category": "education"},
		},
		{
			ID:          "aws-architecture",
			Name:        "AWS Architecture Review",
			Description: "Review and suggest improvements for AWS architecture",
			Content:     "Please review this AWS architecture for {{use_case}}:\n\n{{architecture_description}}\n\nProvide feedback on:\n- Cost optimization\n- Security best practices\n- Scalability\n- Reliability\n- Performance\n\nSuggest specific AWS services and configurations that would improve this architecture.",
			Tags:        []string{"aws", "architecture", "cloud", "review"},
			Variables: map[string]VariableSpec{
				"use_case":                 {Description: "The use case or application type", Required: true},
				"architecture_description": {Description: "Description of the current architecture", Required: true},
			},
			Metadata: map[string]interface{}{"author": "MCP Server", "version": "1.0.0", "category": "aws"},
		},
		{
			ID:          "sample",
			Name:        "Sample Prompt",
			Description: "A sample prompt for testing",
			Content:     "This is a sample prompt with {{variable1}} and {{variable2}}.",
			Tags:        []string{"sample", "test"},
			Variables: map[string]VariableSpec{
				"variable1": {Description: "First variable", Required: true},
				"variable2": {Description: "Second variable", Required: false},
			},
			Metadata: map[string]interface{}{"author": "MCP Application", "version": "1.0.0"},
		},
	}

	for _, prompt := range samplePrompts {
		if _, err := pr.GetPrompt(prompt.ID); err != nil {
			if err := pr.SavePrompt(prompt); err != nil {
				logger.Warn("Failed to create sample prompt", prompt.ID, err)
			} else {
				logger.Info("Created sample prompt", prompt.ID)
			}
		}
	}
}

var globalRegistry *Registry

// GetGlobalRegistry returns the process-wide prompt registry instance,
// creating it (and its sample prompts) on first use.
func GetGlobalRegistry() *Registry {
	if globalRegistry == nil {
		globalRegistry = NewPromptRegistry()
	}
	return globalRegistry
}
