package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"devicecall/pkg/calltypes"
)

// ModuleListing is the group of active commands of one module.
type ModuleListing struct {
	Module   string
	Commands []calltypes.Info
}

// Listing is the grouped command document, ordered by the first
// registration of each module. It serializes as {"module": [cmd, ...], ...}.
type Listing []ModuleListing

// Listing groups the active commands by module.
func (r *Registry) Listing() Listing {
	var listing Listing
	index := make(map[string]int)
	for _, cmd := range r.Active() {
		i, seen := index[cmd.Module]
		if !seen {
			i = len(listing)
			index[cmd.Module] = i
			listing = append(listing, ModuleListing{Module: cmd.Module})
		}
		listing[i].Commands = append(listing[i].Commands, cmd.Info())
	}
	return listing
}

// MarshalJSON renders the listing as an object keyed by module, keeping
// module order.
func (l Listing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Module)
		if err != nil {
			return nil, err
		}
		cmds, err := json.Marshal(m.Commands)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(cmds)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the listing as an ordered mapping keyed by module.
func (l Listing) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range l {
		var cmds yaml.Node
		if err := cmds.Encode(m.Commands); err != nil {
			return nil, fmt.Errorf("failed to encode commands of module %q: %w", m.Module, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Module},
			&cmds,
		)
	}
	return node, nil
}

// truncated replaces a listing that exceeds the size limit.
type truncated struct {
	Trunc bool   `json:"trunc"`
	Error string `json:"error"`
}

// RenderWithin serializes the listing if it stays below limit bytes and
// otherwise a {"trunc": true, "error": ...} document describing the sizes.
func RenderWithin(l Listing, limit int) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to render commands: %w", err)
	}
	if len(data) < limit {
		return data, nil
	}
	return json.Marshal(truncated{
		Trunc: true,
		Error: fmt.Sprintf("commands are too long (%d chars) and don't fit into the size limit of the commands variable (%d)",
			len(data), limit),
	})
}
