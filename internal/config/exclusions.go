package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExclusionGroup is a labelled batch of names; labels are for readers only.
type ExclusionGroup struct {
	Name  string
	Names []string
}

// ExclusionList is the decoded content of one exclusion file.
type ExclusionList struct {
	Groups []ExclusionGroup
}

// Names flattens every group in file order.
func (l ExclusionList) Names() []string {
	out := make([]string, 0)
	for _, g := range l.Groups {
		out = append(out, g.Names...)
	}
	return out
}

// LoadExclusionFile reads a YAML exclusion file. The document is either a plain
// list of names or a mapping of group label to list of names.
func LoadExclusionFile(path string) (ExclusionList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExclusionList{}, fmt.Errorf("exclusions load failed (%s): %w", path, err)
	}
	list, err := ParseExclusions(data)
	if err != nil {
		return ExclusionList{}, fmt.Errorf("exclusions parse failed (%s): %w", path, err)
	}
	return list, nil
}

// ParseExclusions decodes exclusion YAML.
func ParseExclusions(data []byte) (ExclusionList, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ExclusionList{}, err
	}
	if len(doc.Content) == 0 {
		return ExclusionList{}, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := root.Decode(&names); err != nil {
			return ExclusionList{}, err
		}
		return ExclusionList{Groups: []ExclusionGroup{{Names: names}}}, nil
	case yaml.MappingNode:
		groups := make([]ExclusionGroup, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, value := root.Content[i], root.Content[i+1]
			var names []string
			if value.Kind != yaml.ScalarNode || value.Tag != "!!null" {
				if err := value.Decode(&names); err != nil {
					return ExclusionList{}, fmt.Errorf("group %q (line %d): %w", key.Value, key.Line, err)
				}
			}
			groups = append(groups, ExclusionGroup{Name: key.Value, Names: names})
		}
		return ExclusionList{Groups: groups}, nil
	default:
		return ExclusionList{}, fmt.Errorf("expected a list or a mapping of lists at line %d", root.Line)
	}
}
