package descriptor

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts js_vars either as a sequence (keys are positions) or as a mapping
// whose declaration order is kept.
func (b *Bindings) UnmarshalYAML(value *yaml.Node) error {
	*b = nil

	switch value.Kind {
	case yaml.SequenceNode:
		for i, item := range value.Content {
			var raw RawBinding
			if err := item.Decode(&raw); err != nil {
				return err
			}
			*b = append(*b, KeyedBinding{Key: strconv.Itoa(i), Binding: raw})
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			var raw RawBinding
			if err := value.Content[i+1].Decode(&raw); err != nil {
				return err
			}
			*b = append(*b, KeyedBinding{Key: value.Content[i].Value, Binding: raw})
		}
	default:
		if value.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("line %d: js_vars must be a sequence or mapping", value.Line)
	}

	return nil
}

// UnmarshalYAML accepts a single selector string or a list of selectors.
func (s *Selector) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = Selector{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = Selector(list)
		return nil
	default:
		return fmt.Errorf("line %d: element must be a string or list of strings", value.Line)
	}
}

// UnmarshalYAML accepts the [name, argument] pair form and the {name, arg} mapping form.
func (c *Callback) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		if len(value.Content) > 2 {
			return fmt.Errorf("line %d: js_callback takes at most a name and one argument", value.Line)
		}
		c.Name, c.Arg = "", nil
		if len(value.Content) > 0 {
			if err := value.Content[0].Decode(&c.Name); err != nil {
				return err
			}
		}
		if len(value.Content) > 1 {
			if err := value.Content[1].Decode(&c.Arg); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Name string `yaml:"name"`
			Arg  any    `yaml:"arg"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		c.Name, c.Arg = raw.Name, raw.Arg
		return nil
	case yaml.ScalarNode:
		c.Name, c.Arg = value.Value, nil
		return nil
	default:
		return fmt.Errorf("line %d: js_callback must be a list or mapping", value.Line)
	}
}

// UnmarshalYAML reads pattern_replace keeping declaration order.
func (r *Replacements) UnmarshalYAML(value *yaml.Node) error {
	*r = nil
	if value.Kind != yaml.MappingNode {
		if value.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("line %d: pattern_replace must be a mapping", value.Line)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		var setting string
		if err := value.Content[i+1].Decode(&setting); err != nil {
			return err
		}
		*r = append(*r, Replacement{Placeholder: value.Content[i].Value, Setting: setting})
	}
	return nil
}
