package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for ParamDecls.
func (p *ParamDecls) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("expected list of parameters, got %v", node.Kind)
	}

	result := make([]ParamDecl, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return errors.New("expected map for parameter definition")
		}

		var m map[string]string
		if err := item.Decode(&m); err != nil {
			return fmt.Errorf("invalid parameter definition: %w", err)
		}

		// Explicit object definition
		if name, ok := m["name"]; ok {
			result = append(result, ParamDecl{Name: name, Type: m["type"]})
			continue
		}

		// Key-value shorthand: {paramName: paramType}
		if len(item.Content) != 2 {
			return errors.New("invalid parameter definition, expected {name: type} or {name: ..., type: ...}")
		}

		result = append(result, ParamDecl{Name: item.Content[0].Value, Type: item.Content[1].Value})
	}

	*p = result

	return nil
}
