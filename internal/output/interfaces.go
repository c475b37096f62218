// Package output renders call results and documents for the devicecall CLI.
// Styling is optional: a Printer falls back to plain text with semantic
// prefixes when no StyleProvider is available.
package output

// StyleProvider supplies styles for semantic output types.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic string) TextStyle

	// IsAvailable reports whether the provider can render styles.
	IsAvailable() bool
}

// TextStyle renders text with styling. lipgloss.Style implements it.
type TextStyle interface {
	Render(strs ...string) string
}

// Mode defines different output modes the printer can operate in.
type Mode int

const (
	// ModeAuto uses styling when a provider is available
	ModeAuto Mode = iota

	// ModeStyled forces styled output
	ModeStyled

	// ModePlain forces plain text output
	ModePlain

	// ModeJSON outputs one JSON object per line
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents a successful call.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents a call that succeeded with a warning.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents a failed call.
	SemanticError SemanticType = "error"

	// SemanticCommand represents a module or command name.
	SemanticCommand SemanticType = "command"
	// SemanticVariable represents a document name.
	SemanticVariable SemanticType = "variable"
	// SemanticCode represents a JSON or YAML document.
	SemanticCode SemanticType = "code"
)
