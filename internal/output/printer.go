package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

// Printer is the main output handler that supports both plain and styled output.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	mode          Mode
	forcePlain    bool
	silent        bool
	prefix        string

	mu sync.Mutex
}

// NewPrinter creates a new Printer with the given options.
// By default, it writes to os.Stdout with automatic mode detection.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer: os.Stdout,
		mode:   ModeAuto,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text with info styling.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text with success styling.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text with warning styling.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text with error styling.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Code outputs a document.
func (p *Printer) Code(text string) {
	p.output(SemanticCode, text, true)
}

// Result prints the outcome of a call: a status line colored by the sign of
// the return code followed by the call record. In JSON mode only the record
// is written.
func (p *Printer) Result(call *calltypes.Call) {
	record, err := json.Marshal(call)
	if err != nil {
		p.Error(fmt.Sprintf("failed to encode call record: %v", err))
		return
	}

	if p.mode == ModeJSON {
		p.write(string(record) + "\n")
		return
	}

	code := returns.Get(call)
	status := fmt.Sprintf("%d", code)
	if msg := returns.Message(call); msg != "" {
		status += " " + msg
	}
	if call.Command != nil {
		status = p.render(SemanticCommand, qualifiedName(call)) + ": " + status
	}

	switch {
	case code < calltypes.Success:
		p.Error(status)
	case code > calltypes.Success:
		p.Warning(status)
	default:
		p.Success(status)
	}
	p.Code(string(record))
}

// Document prints a named document such as the command listing.
func (p *Printer) Document(name string, data []byte) {
	if p.mode == ModeJSON {
		line, err := json.Marshal(map[string]any{"name": name, "data": json.RawMessage(data)})
		if err != nil {
			p.write(string(data) + "\n")
			return
		}
		p.write(string(line) + "\n")
		return
	}
	p.output(SemanticVariable, name, true)
	p.Code(strings.TrimRight(string(data), "\n"))
}

func qualifiedName(call *calltypes.Call) string {
	if call.ModuleName() == "" {
		return call.CommandName()
	}
	return call.ModuleName() + " " + call.CommandName()
}

// output is the core output method that handles all rendering logic.
func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	var finalText string
	if p.mode == ModeJSON {
		finalText = p.renderJSON(semantic, text)
	} else {
		finalText = p.render(semantic, text)
		if addNewline && !strings.HasSuffix(finalText, "\n") {
			finalText += "\n"
		}
	}
	p.write(finalText)
}

func (p *Printer) write(text string) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.prefix != "" {
		text = p.prefix + text
	}
	_, _ = fmt.Fprint(p.writer, text) // Ignore write errors for output operations
}

// render styles text when a provider is available and falls back to plain
// text with semantic prefixes otherwise.
func (p *Printer) render(semantic SemanticType, text string) string {
	if p.IsStylable() {
		return p.styleProvider.GetStyle(string(semantic)).Render(text)
	}
	return NewPlainStyleProvider().GetStyle(string(semantic)).Render(text)
}

// renderJSON renders output as structured JSON.
func (p *Printer) renderJSON(semantic SemanticType, text string) string {
	jsonBytes, err := json.Marshal(map[string]interface{}{
		"type":    semantic,
		"message": text,
	})
	if err != nil {
		return text + "\n"
	}
	return string(jsonBytes) + "\n"
}

// SetWriter changes the output writer.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	if p.forcePlain || p.mode == ModePlain {
		return false
	}
	return p.styleProvider != nil && p.styleProvider.IsAvailable()
}
