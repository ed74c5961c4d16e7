package fatturex

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders the instance as an object with the fields in schema
// order. Unset fields are omitted.
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, e := range m.schema.entries {
		v := m.values[i]
		if !e.field.HasValue(v) {
			continue
		}
		// Nested models marshal themselves so their fields keep schema
		// order too.
		var payload any
		switch e.field.(type) {
		case *ModelField, *ModelListField:
			payload = v
		default:
			payload = e.field.ToPlain(v)
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)
		first = false
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the instance as a mapping with the fields in schema
// order. Unset fields are omitted.
func (m *Model) MarshalYAML() (any, error) {
	return m.yamlNode()
}

func (m *Model) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, e := range m.schema.entries {
		v := m.values[i]
		if !e.field.HasValue(v) {
			continue
		}
		key := &yaml.Node{}
		key.SetString(e.name)
		var val *yaml.Node
		switch e.field.(type) {
		case *ModelField:
			sub, err := v.(*Model).yamlNode()
			if err != nil {
				return nil, err
			}
			val = sub
		case *ModelListField:
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, item := range v.([]*Model) {
				sub, err := item.yamlNode()
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, sub)
			}
			val = seq
		default:
			val = &yaml.Node{}
			if err := val.Encode(e.field.ToPlain(v)); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
