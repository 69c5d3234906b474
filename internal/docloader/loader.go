package docloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/dictcheck/internal/ctxlog"
	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/fsutil"
	"github.com/specialistvlad/dictcheck/internal/inmemorydoc"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".hcl", ".yaml", ".yml"}

// Loader reads document files into a Workspace.
type Loader struct{}

// NewLoader creates a new document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every document file found under paths. Directories are walked
// recursively and missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Document loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered document files.", "count", len(files))

	parser := hclparse.NewParser()
	var defs []projectDef
	for _, file := range files {
		var found []projectDef
		if strings.EqualFold(filepath.Ext(file), ".hcl") {
			found, err = parseHCL(parser, file)
		} else {
			found, err = l.readYAML(file)
		}
		if err != nil {
			return nil, err
		}
		defs = append(defs, found...)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProjects, strings.Join(paths, ", "))
	}

	ws, err := build(defs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Document loading complete.", "files", len(files), "projects", len(ws.Projects))
	return ws, nil
}

func (l *Loader) readYAML(file string) ([]projectDef, error) {
	in, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
	}
	return parseYAML(in, file)
}

// build creates one document per project, line and flow.
func build(defs []projectDef) (*Workspace, error) {
	ws := &Workspace{Store: inmemorydoc.New()}
	s := ws.Store
	seen := make(map[string]string)

	for _, pd := range defs {
		if pd.Name == "" {
			return nil, fmt.Errorf("%s: project without a name", pd.File)
		}
		if prev, ok := seen[pd.Name]; ok {
			return nil, fmt.Errorf("%s: project %q already declared in %s", pd.File, pd.Name, prev)
		}
		seen[pd.Name] = pd.File

		p := &Project{Name: pd.Name, File: pd.File, Doc: s.NewDocument(model.ScopeProject, pd.Name)}
		if err := addVars(s, p.Doc, pd.Vars); err != nil {
			return nil, fmt.Errorf("%s: project %q: %w", pd.File, pd.Name, err)
		}

		lines := make(map[string]struct{})
		for _, ld := range pd.Lines {
			if err := unique(lines, ld.Name); err != nil {
				return nil, fmt.Errorf("%s: project %q: line %w", pd.File, pd.Name, err)
			}
			l := &Line{Name: ld.Name, Doc: s.NewDocument(model.ScopeLine, ld.Name)}
			if err := addVars(s, l.Doc, ld.Vars); err != nil {
				return nil, fmt.Errorf("%s: line %q: %w", pd.File, ld.Name, err)
			}

			flows := make(map[string]struct{})
			for _, fd := range ld.Flows {
				if err := unique(flows, fd.Name); err != nil {
					return nil, fmt.Errorf("%s: line %q: flow %w", pd.File, ld.Name, err)
				}
				f := &Flow{Name: fd.Name, Doc: s.NewDocument(model.ScopeFlow, fd.Name)}
				if err := addVars(s, f.Doc, fd.Vars); err != nil {
					return nil, fmt.Errorf("%s: flow %q: %w", pd.File, fd.Name, err)
				}
				if err := addParams(s, f.Doc, fd.Params); err != nil {
					return nil, fmt.Errorf("%s: flow %q: %w", pd.File, fd.Name, err)
				}
				l.Flows = append(l.Flows, f)
			}
			p.Lines = append(p.Lines, l)
		}
		ws.Projects = append(ws.Projects, p)
	}
	return ws, nil
}

func unique(seen map[string]struct{}, name string) error {
	if name == "" {
		return errors.New("without a name")
	}
	if _, ok := seen[name]; ok {
		return fmt.Errorf("%q declared twice", name)
	}
	seen[name] = struct{}{}
	return nil
}

func addVars(s *inmemorydoc.Store, doc document.DocID, vars []varDef) error {
	for _, v := range vars {
		typ, err := parseType(v.Type)
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
		h, err := s.AppendDictionaryEntry(doc, typ, v.Name, v.Value)
		if err != nil {
			return err
		}
		if v.Step == nil && v.Count == nil {
			continue
		}
		step, count := "1", "1"
		if v.Step != nil {
			step = *v.Step
		}
		if v.Count != nil {
			count = *v.Count
		}
		if err := s.SetIteration(h, step, count); err != nil {
			return err
		}
	}
	return nil
}

func addParams(s *inmemorydoc.Store, doc document.DocID, params []paramDef) error {
	for _, p := range params {
		typ, err := parseType(p.Type)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", p.Keyword, err)
		}
		if _, err := s.AddParameter(doc, typ, p.Keyword, p.Value, p.Required); err != nil {
			return err
		}
	}
	return nil
}

// parseType defaults to string.
func parseType(s string) (model.VarType, error) {
	if s == "" {
		return model.TypeString, nil
	}
	return model.ParseVarType(s)
}
