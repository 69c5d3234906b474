package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/dictcheck/internal/document"
	"github.com/specialistvlad/dictcheck/internal/docloader"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// Check validates every definition and program parameter of the selected
// documents, or of every binding when Config.All is set, and writes the
// report to the output.
func (a *App) Check(ctx context.Context) (*CheckReport, error) {
	bindings := []docloader.Binding{a.binding}
	if a.config.All {
		bindings = a.workspace.Bindings()
	}
	a.logger.Debug("Check started.", "bindings", len(bindings))

	report := &CheckReport{}
	for _, b := range bindings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.bind(b)
		report.Sections = append(report.Sections, a.checkBinding(b))
	}

	for _, s := range report.Sections {
		for _, e := range s.Entries {
			report.Checked++
			if e.Error != "" {
				report.Failed++
			}
		}
	}
	a.logger.Debug("Check finished.", "checked", report.Checked, "failed", report.Failed)
	return report, a.write(report)
}

func (a *App) checkBinding(b docloader.Binding) Section {
	s := Section{Project: b.Project, Line: b.Line, Flow: b.Flow}
	store := a.workspace.Store

	for _, scope := range []model.Scope{model.ScopeProject, model.ScopeLine, model.ScopeFlow} {
		doc := b.Triple.For(scope)
		if doc == document.NoDoc {
			continue
		}
		for _, h := range store.DictionaryParameters(doc) {
			s.Entries = append(s.Entries, a.checkParam(h, scope, false))
		}
		for _, h := range store.ProgramParameters(doc) {
			s.Entries = append(s.Entries, a.checkParam(h, scope, true))
		}
	}
	return s
}

func (a *App) checkParam(h document.Handle, scope model.Scope, program bool) Entry {
	store := a.workspace.Store
	e := Entry{
		Scope:      scope.String(),
		Name:       store.Name(h),
		Type:       store.Type(h).String(),
		Expression: store.Value(h),
		Parameter:  program,
	}

	if err := a.validator.ValidateParam(h); err != nil {
		e.setError(err)
		return e
	}
	val, err := a.validator.Evaluate(h, nil)
	if err != nil {
		e.setError(err)
		return e
	}
	e.Value = val
	return e
}

// Eval evaluates text against the bound documents and writes the result.
// Bindings are NAME=VALUE pairs; values that parse as numbers bind as
// numbers.
func (a *App) Eval(text string, typ model.VarType, scope model.Scope, bindings []string) (string, error) {
	vars, err := parseBindings(bindings)
	if err != nil {
		return "", err
	}
	out, err := a.validator.EvaluateExpr(text, typ, scope, vars)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintln(a.outW, out); err != nil {
		return "", err
	}
	return out, nil
}

// Preamble writes the evaluated definitions visible from scope.
func (a *App) Preamble(scope model.Scope) error {
	b, err := a.validator.Preamble(scope)
	if err != nil {
		return err
	}
	_, err = a.outW.Write(b)
	return err
}

func parseBindings(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || !model.ValidName(name) {
			return nil, fmt.Errorf("invalid binding %q: want NAME=VALUE", pair)
		}
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			vars[name] = i
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			vars[name] = f
		} else {
			vars[name] = value
		}
	}
	return vars, nil
}
