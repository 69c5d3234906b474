package docloader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scalars of any YAML type decode into the string fields, so `value: 4`
// and `value: "4"` are equivalent.

type yamlProject struct {
	Name  string     `yaml:"name"`
	Vars  []yamlVar  `yaml:"vars,omitempty"`
	Lines []yamlLine `yaml:"lines,omitempty"`
}

type yamlLine struct {
	Name  string     `yaml:"name"`
	Vars  []yamlVar  `yaml:"vars,omitempty"`
	Flows []yamlFlow `yaml:"flows,omitempty"`
}

type yamlFlow struct {
	Name   string      `yaml:"name"`
	Vars   []yamlVar   `yaml:"vars,omitempty"`
	Params []yamlParam `yaml:"params,omitempty"`
}

type yamlVar struct {
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type,omitempty"`
	Value string  `yaml:"value,omitempty"`
	Step  *string `yaml:"step,omitempty"`
	Count *string `yaml:"count,omitempty"`
}

type yamlParam struct {
	Keyword  string `yaml:"keyword"`
	Type     string `yaml:"type,omitempty"`
	Value    string `yaml:"value,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// parseYAML accepts a sequence of projects or a single project mapping.
func parseYAML(in []byte, file string) ([]projectDef, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", file, err)
	}
	if len(docNode.Content) == 0 {
		return nil, nil
	}
	root := docNode.Content[0]

	var projects []yamlProject
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&projects); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
	case yaml.MappingNode:
		var p yamlProject
		if err := root.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
		projects = append(projects, p)
	default:
		return nil, fmt.Errorf("failed to decode YAML file %s: unexpected root kind %d", file, root.Kind)
	}

	defs := make([]projectDef, 0, len(projects))
	for _, p := range projects {
		def := projectDef{Name: p.Name, File: file, Vars: yamlVars(p.Vars)}
		for _, l := range p.Lines {
			line := lineDef{Name: l.Name, Vars: yamlVars(l.Vars)}
			for _, fl := range l.Flows {
				flow := flowDef{Name: fl.Name, Vars: yamlVars(fl.Vars)}
				for _, prm := range fl.Params {
					flow.Params = append(flow.Params, paramDef(prm))
				}
				line.Flows = append(line.Flows, flow)
			}
			def.Lines = append(def.Lines, line)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func yamlVars(in []yamlVar) []varDef {
	out := make([]varDef, 0, len(in))
	for _, v := range in {
		out = append(out, varDef(v))
	}
	return out
}
