package console

import (
	"slices"
	"sort"
	"strings"

	"devicecall/internal/grammar"
	"devicecall/pkg/calltypes"
)

// CommandLister returns the commands to complete against.
type CommandLister interface {
	Active() []*calltypes.Command
}

// Completer provides tab completion of modules, commands, text values,
// units and parameter names. It implements readline.AutoCompleter.
type Completer struct {
	commands CommandLister
	params   []string
}

// NewCompleter creates a completer over the given commands and parameters.
func NewCompleter(commands CommandLister, params []string) *Completer {
	return &Completer{commands: commands, params: params}
}

// Do implements readline.AutoCompleter. It returns the suffixes completing
// the word under the cursor and the length of that word.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, offset int) {
	if pos > len(line) {
		pos = len(line)
	}
	input := string(line[:pos])

	wordStart := strings.LastIndexByte(input, ' ') + 1
	currentWord := input[wordStart:]
	before := strings.Fields(input[:wordStart])

	var suggestions [][]rune
	for _, completion := range c.completions(before) {
		if strings.HasPrefix(completion, currentWord) {
			suggestions = append(suggestions, []rune(strings.TrimPrefix(completion, currentWord)))
		}
	}
	return suggestions, len([]rune(currentWord))
}

// completions returns the candidates for the word following before.
func (c *Completer) completions(before []string) []string {
	active := c.commands.Active()
	if len(before) == 0 {
		var words []string
		for _, cmd := range active {
			if cmd.Module != "" {
				words = append(words, cmd.Module)
			}
			words = append(words, cmd.Name)
		}
		return sortedUnique(words)
	}

	var matches []*calltypes.Command
	valueIndex := 1
	if isModule(active, before[0]) {
		if len(before) == 1 {
			var names []string
			for _, cmd := range active {
				if cmd.Module == before[0] {
					names = append(names, cmd.Name)
				}
			}
			return sortedUnique(names)
		}
		valueIndex = 2
		for _, cmd := range active {
			if cmd.Module == before[0] && cmd.Name == before[1] {
				matches = append(matches, cmd)
			}
		}
	} else {
		for _, cmd := range active {
			if cmd.Name == before[0] {
				matches = append(matches, cmd)
			}
		}
	}

	var words []string
	switch {
	case len(before) == valueIndex:
		for _, cmd := range matches {
			words = append(words, cmd.TextValues...)
		}
	case len(before) == valueIndex+1 && expectsSeparateUnit(matches, before[valueIndex]):
		for _, cmd := range matches {
			words = append(words, cmd.NumericUnits...)
		}
	}
	for _, p := range c.params {
		words = append(words, p+"=")
	}
	return sortedUnique(words)
}

func isModule(active []*calltypes.Command, word string) bool {
	return slices.ContainsFunc(active, func(cmd *calltypes.Command) bool {
		return cmd.Module != "" && cmd.Module == word
	})
}

// expectsSeparateUnit reports whether value is a bare number of a command
// that requires a unit.
func expectsSeparateUnit(matches []*calltypes.Command, value string) bool {
	for _, cmd := range matches {
		if !cmd.AllowNumeric || len(cmd.NumericUnits) == 0 {
			continue
		}
		if _, suffix, ok := grammar.ParseNumber(value); ok && suffix == "" {
			return true
		}
	}
	return false
}

func sortedUnique(words []string) []string {
	sort.Strings(words)
	return slices.Compact(words)
}
