package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ThemeStyleProvider implements StyleProvider with lipgloss styles.
type ThemeStyleProvider struct {
	styles map[SemanticType]lipgloss.Style
}

// NewThemeStyleProvider creates the default terminal theme.
func NewThemeStyleProvider() *ThemeStyleProvider {
	return &ThemeStyleProvider{
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "75"}),
			SemanticSuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
			SemanticWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			SemanticError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			SemanticCommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			SemanticVariable: lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
			SemanticCode:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"}),
		},
	}
}

// GetStyle implements StyleProvider. Unknown semantics render unstyled.
func (t *ThemeStyleProvider) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// IsAvailable reports whether the terminal supports colors.
func (t *ThemeStyleProvider) IsAvailable() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}
