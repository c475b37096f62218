// Package parser resolves a raw call string against the registered commands.
// It matches the module or command, interprets the value with the value
// grammar and captures trailing name=value parameters.
package parser

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"devicecall/internal/grammar"
	"devicecall/internal/logger"
	"devicecall/internal/returns"
	"devicecall/pkg/calltypes"
)

// CommandSource exposes the registered commands, including deactivated
// ones, in stable registration order.
type CommandSource interface {
	Commands() []*calltypes.Command
}

// Parser resolves calls against a CommandSource. It holds no per-call state
// and parsing the same call against the same commands always yields the
// same record.
type Parser struct {
	source CommandSource
	params []string
	log    *log.Logger
}

// New creates a parser for the commands of source. params are the
// parameter names (without '=') captured from the end of every call.
func New(source CommandSource, params []string) *Parser {
	return &Parser{
		source: source,
		params: append([]string(nil), params...),
		log:    logger.NewStyledLogger("Parser"),
	}
}

// Params returns the parameter names the parser captures.
func (p *Parser) Params() []string {
	return append([]string(nil), p.params...)
}

// Parse interprets call.Raw and fills in the call record. It returns the
// resolved command, or the calltypes.Error that ended parsing; in that case
// the error is also recorded as the call's return value.
func (p *Parser) Parse(call *calltypes.Call) (*calltypes.Command, error) {
	cmd, err := p.parse(call)
	if err != nil {
		var callErr calltypes.Error
		if !errors.As(err, &callErr) {
			callErr = calltypes.CallErrUnknown
		}
		returns.SetError(call, callErr)
		return nil, callErr
	}
	return cmd, nil
}

func (p *Parser) parse(call *calltypes.Call) (*calltypes.Command, error) {
	tokens := newTokenizer(call.Raw)

	first, ok := tokens.Next()
	if !ok {
		return nil, calltypes.CallErrEmpty
	}

	cmd, err := p.resolve(call, first, tokens)
	if err != nil {
		return nil, err
	}

	if cmd.ExpectsValue() {
		if err := p.parseValue(call, cmd, tokens); err != nil {
			return nil, err
		}
	}

	p.parseParams(call, cmd, tokens)
	return cmd, nil
}

// resolve matches the first token against modules and command names at
// the same time and applies the resolution rules.
func (p *Parser) resolve(call *calltypes.Call, token string, tokens *tokenizer) (*calltypes.Command, error) {
	commands := p.source.Commands()

	moduleFound := false
	matches := 0
	var match *calltypes.Command
	for _, cmd := range commands {
		if !cmd.Active {
			continue
		}
		if token == cmd.Module {
			moduleFound = true
		}
		if token == cmd.Name {
			p.log.Debug("cmd match", "command", token)
			matches++
			match = cmd
		}
	}
	if moduleFound {
		call.Module = &token
	}
	if matches > 0 {
		call.Command = &token
	}

	switch {
	case moduleFound && matches == 0:
		name, ok := tokens.Next()
		if !ok {
			return nil, calltypes.CallErrCmdMissing
		}
		for _, cmd := range commands {
			if cmd.Active && cmd.Module == token && cmd.Name == name {
				p.log.Debug("cmd match", "module", token, "command", name)
				call.Command = &name
				return cmd, nil
			}
		}
		return nil, calltypes.CallErrCmdUnrec

	case !moduleFound && matches == 1:
		module := match.Module
		call.Module = &module
		return match, nil

	case !moduleFound && matches == 0:
		return nil, calltypes.CallErrModuleOrCmdUnrec

	case !moduleFound && matches > 1:
		return nil, calltypes.CallErrAmbiguous

	default:
		// module and command names are kept apart at registration
		p.log.Error("token matches both a module and a command", "call", call.Raw, "token", token)
		return nil, calltypes.CallErrUnknown
	}
}

// parseValue consumes the value token (and a separate unit token) of cmd.
func (p *Parser) parseValue(call *calltypes.Call, cmd *calltypes.Command, tokens *tokenizer) error {
	token, ok := tokens.Next()
	if !ok {
		if !cmd.ValueOptional {
			return calltypes.CallErrValueMissing
		}
		call.NoValue = true
		return nil
	}

	value, err := grammar.Evaluate(cmd, token, tokens)
	call.Value = &value.Text
	if value.Numeric {
		number := value.Number
		call.Number = &number
		p.log.Debug("numeric value", "value", number)
	}
	if value.HasUnit {
		unit := value.Unit
		call.Unit = &unit
	}
	if err != nil {
		return err
	}

	if value.IsText {
		p.log.Debug("value match", "value", token)
	} else if value.HasUnit {
		p.log.Debug("unit match", "unit", value.Unit)
	}
	return nil
}

// parseParams scans the remaining tokens for name= prefixes. Each parameter
// collects the following tokens until the next name= prefix. Tokens before
// the first parameter are dropped.
func (p *Parser) parseParams(call *calltypes.Call, cmd *calltypes.Command, tokens *tokenizer) {
	if len(p.params) == 0 {
		return
	}

	current := ""
	var value strings.Builder
	var dropped []string
	flush := func() {
		if current != "" {
			p.log.Debug("param", "name", current, "value", value.String())
			call.Params[current] = value.String()
		}
	}

	for token, ok := tokens.Next(); ok; token, ok = tokens.Next() {
		if name, rest, found := p.matchParam(token); found {
			flush()
			current = name
			value.Reset()
			value.WriteString(rest)
			continue
		}
		if current == "" {
			dropped = append(dropped, token)
			continue
		}
		value.WriteByte(' ')
		value.WriteString(token)
	}
	flush()

	if len(dropped) > 0 {
		p.log.Debug("ignoring tokens before the first parameter", "command", cmd.Name, "tokens", dropped)
	}
}

// matchParam returns the parameter whose "name=" prefixes token and the
// rest of the token after the prefix.
func (p *Parser) matchParam(token string) (name, rest string, found bool) {
	for _, param := range p.params {
		if rest, ok := strings.CutPrefix(token, param+"="); ok {
			return param, rest, true
		}
	}
	return "", "", false
}
