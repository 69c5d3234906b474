package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/dictcheck/internal/model"
)

// CheckReport is the result of App.Check.
type CheckReport struct {
	Sections []Section `yaml:"sections"`
	Checked  int       `yaml:"checked"`
	Failed   int       `yaml:"failed"`
}

// Section groups the entries of one project, line and flow binding.
type Section struct {
	Project string  `yaml:"project"`
	Line    string  `yaml:"line,omitempty"`
	Flow    string  `yaml:"flow,omitempty"`
	Entries []Entry `yaml:"entries"`
}

// Title names the binding, broadest document first.
func (s Section) Title() string {
	parts := []string{fmt.Sprintf("project %q", s.Project)}
	if s.Line != "" {
		parts = append(parts, fmt.Sprintf("line %q", s.Line))
	}
	if s.Flow != "" {
		parts = append(parts, fmt.Sprintf("flow %q", s.Flow))
	}
	return strings.Join(parts, " / ")
}

// Entry is the outcome for one dictionary variable or program parameter.
type Entry struct {
	Scope      string `yaml:"scope"`
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Expression string `yaml:"expression"`
	Parameter  bool   `yaml:"parameter,omitempty"`
	Value      string `yaml:"value,omitempty"`
	Kind       string `yaml:"kind,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

func (e *Entry) setError(err error) {
	e.Error = err.Error()
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		e.Kind = ve.Kind.String()
	} else {
		e.Kind = "evaluation error"
	}
}

func (a *App) write(r *CheckReport) error {
	if a.config.Output == OutputYAML {
		return writeYAML(a.outW, r)
	}
	return writeText(a.outW, r)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

type styles struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	name   lipgloss.Style
	detail lipgloss.Style
}

// newStyles binds the styles to w so that colours are dropped when w is
// not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("42")).Width(7),
		err:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Width(7),
		name:   r.NewStyle(),
		detail: r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func writeText(w io.Writer, r *CheckReport) error {
	st := newStyles(w)
	var b strings.Builder

	for i, s := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.title.Render(s.Title()))
		b.WriteString("\n")

		width := 0
		for _, e := range s.Entries {
			width = max(width, len(e.label()))
		}
		for _, e := range s.Entries {
			status, detail := st.ok.Render("ok"), "= "+e.Value
			if e.Error != "" {
				status, detail = st.err.Render("error"), e.Error
			}
			fmt.Fprintf(&b, "  %s %s  %s\n", status, st.name.Width(width).Render(e.label()), st.detail.Render(detail))
		}
	}

	summary := fmt.Sprintf("%d checked, %d failed", r.Checked, r.Failed)
	if r.Failed > 0 {
		summary = st.err.UnsetWidth().Render(summary)
	} else {
		summary = st.ok.UnsetWidth().Render(summary)
	}
	b.WriteString("\n" + summary + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// label reads "scope.name" for variables and "param name" for program
// parameters.
func (e Entry) label() string {
	if e.Parameter {
		return "param " + e.Name
	}
	return e.Scope + "." + e.Name
}
