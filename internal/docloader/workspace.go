package docloader

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/inmemorydoc"
)

var (
	// ErrNoProjects is returned when the given paths declare no project.
	ErrNoProjects = errors.New("no projects found")
	// ErrNotFound is returned by Select for an unknown project, line or flow.
	ErrNotFound = errors.New("not found")
)

// Workspace holds every loaded document.
type Workspace struct {
	Store    *inmemorydoc.Store
	Projects []*Project
}

// Project is a loaded project document and its lines.
type Project struct {
	Name  string
	File  string
	Doc   document.DocID
	Lines []*Line
}

// Line is a loaded line document and its flows.
type Line struct {
	Name  string
	Doc   document.DocID
	Flows []*Flow
}

// Flow is a loaded flow document.
type Flow struct {
	Name string
	Doc  document.DocID
}

// Select picks the documents to bind. An empty name selects the first
// declared entry at that level; a project or line without children leaves
// the narrower documents unbound.
func (w *Workspace) Select(project, line, flow string) (Binding, error) {
	var b Binding

	p, err := pick(w.Projects, project, func(p *Project) string { return p.Name })
	if err != nil {
		return b, fmt.Errorf("project %q: %w", project, err)
	}
	if p == nil {
		return b, ErrNoProjects
	}
	b.Project, b.Triple.Project = p.Name, p.Doc

	l, err := pick(p.Lines, line, func(l *Line) string { return l.Name })
	if err != nil {
		return b, fmt.Errorf("line %q in project %q: %w", line, p.Name, err)
	}
	if l == nil {
		if flow != "" {
			return b, fmt.Errorf("flow %q in project %q: %w", flow, p.Name, ErrNotFound)
		}
		return b, nil
	}
	b.Line, b.Triple.Line = l.Name, l.Doc

	f, err := pick(l.Flows, flow, func(f *Flow) string { return f.Name })
	if err != nil {
		return b, fmt.Errorf("flow %q in line %q: %w", flow, l.Name, err)
	}
	if f != nil {
		b.Flow, b.Triple.Flow = f.Name, f.Doc
	}
	return b, nil
}

// pick returns the entry called name, or the first entry when name is empty.
func pick[T any](items []T, name string, nameOf func(T) string) (T, error) {
	var zero T
	if name == "" {
		if len(items) == 0 {
			return zero, nil
		}
		return items[0], nil
	}
	for _, it := range items {
		if nameOf(it) == name {
			return it, nil
		}
	}
	return zero, ErrNotFound
}

// Binding names the documents of one triple.
type Binding struct {
	Project string
	Line    string
	Flow    string
	Triple  document.Triple
}

// Bindings enumerates every project, line and flow combination in
// declaration order. Projects without lines and lines without flows are
// listed with the narrower documents unbound.
func (w *Workspace) Bindings() []Binding {
	var out []Binding
	for _, p := range w.Projects {
		if len(p.Lines) == 0 {
			out = append(out, Binding{Project: p.Name, Triple: document.Triple{Project: p.Doc}})
			continue
		}
		for _, l := range p.Lines {
			if len(l.Flows) == 0 {
				out = append(out, Binding{Project: p.Name, Line: l.Name, Triple: document.Triple{Project: p.Doc, Line: l.Doc}})
				continue
			}
			for _, f := range l.Flows {
				out = append(out, Binding{
					Project: p.Name,
					Line:    l.Name,
					Flow:    f.Name,
					Triple:  document.Triple{Project: p.Doc, Line: l.Doc, Flow: f.Doc},
				})
			}
		}
	}
	return out
}
