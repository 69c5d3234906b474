package docloader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclRoot decodes all top-level blocks of a file. Unknown blocks are left
// in Remain.
type hclRoot struct {
	Projects []*hclProject `hcl:"project,block"`
	Remain   hcl.Body      `hcl:",remain"`
}

type hclProject struct {
	Name  string     `hcl:"name,label"`
	Vars  []*hclVar  `hcl:"var,block"`
	Lines []*hclLine `hcl:"line,block"`
}

type hclLine struct {
	Name  string     `hcl:"name,label"`
	Vars  []*hclVar  `hcl:"var,block"`
	Flows []*hclFlow `hcl:"flow,block"`
}

type hclFlow struct {
	Name   string      `hcl:"name,label"`
	Vars   []*hclVar   `hcl:"var,block"`
	Params []*hclParam `hcl:"param,block"`
}

// Values, steps and counts are decoded as strings; numbers written without
// quotes are converted.
type hclVar struct {
	Name  string  `hcl:"name,label"`
	Type  string  `hcl:"type,optional"`
	Value string  `hcl:"value,optional"`
	Step  *string `hcl:"step,optional"`
	Count *string `hcl:"count,optional"`
}

type hclParam struct {
	Keyword  string `hcl:"keyword,label"`
	Type     string `hcl:"type,optional"`
	Value    string `hcl:"value,optional"`
	Required bool   `hcl:"required,optional"`
}

func parseHCL(parser *hclparse.Parser, file string) ([]projectDef, error) {
	f, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(f.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	projects := make([]projectDef, 0, len(root.Projects))
	for _, p := range root.Projects {
		def := projectDef{Name: p.Name, File: file, Vars: hclVars(p.Vars)}
		for _, l := range p.Lines {
			line := lineDef{Name: l.Name, Vars: hclVars(l.Vars)}
			for _, fl := range l.Flows {
				flow := flowDef{Name: fl.Name, Vars: hclVars(fl.Vars)}
				for _, prm := range fl.Params {
					flow.Params = append(flow.Params, paramDef{
						Keyword:  prm.Keyword,
						Type:     prm.Type,
						Value:    prm.Value,
						Required: prm.Required,
					})
				}
				line.Flows = append(line.Flows, flow)
			}
			def.Lines = append(def.Lines, line)
		}
		projects = append(projects, def)
	}
	return projects, nil
}

func hclVars(in []*hclVar) []varDef {
	out := make([]varDef, 0, len(in))
	for _, v := range in {
		out = append(out, varDef{Name: v.Name, Type: v.Type, Value: v.Value, Step: v.Step, Count: v.Count})
	}
	return out
}
