package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/dictcheck/internal/app"
	"github.com/specialistvlad/dictcheck/internal/docloader"
	"github.com/specialistvlad/dictcheck/internal/model"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options holds the flags shared by every command.
type options struct {
	paths     []string
	project   string
	line      string
	flow      string
	output    string
	logLevel  string
	logFormat string
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the dictcheck command tree writing to outW and errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "dictcheck",
		Short: "Validate and evaluate dictionary variables of project, line and flow documents",
		Long: `dictcheck loads project documents from HCL or YAML files, binds one
project, line and flow to a dictionary validator, and reports broken
variable definitions, evaluates expressions or prints the evaluated
definitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&opts.paths, "path", "p", []string{"."}, "Document file or directory (repeatable).")
	pf.StringVar(&opts.project, "project", "", "Project to bind (default: first declared).")
	pf.StringVar(&opts.line, "line", "", "Line to bind (default: first line of the project).")
	pf.StringVar(&opts.flow, "flow", "", "Flow to bind (default: first flow of the line).")
	pf.StringVarP(&opts.output, "output", "o", app.OutputText, "Report format. Options: 'text' or 'yaml'.")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(newCheckCommand(opts))
	root.AddCommand(newEvalCommand(opts))
	root.AddCommand(newPreambleCommand(opts))
	return root
}

// newApp validates the configuration and loads the documents.
func (o *options) newApp(cmd *cobra.Command, all bool) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		Paths:     o.paths,
		Project:   o.project,
		Line:      o.line,
		Flow:      o.flow,
		All:       all,
		Output:    o.output,
		LogFormat: o.logFormat,
		LogLevel:  o.logLevel,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, docloader.NewLoader())
}

func newCheckCommand(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check [PATH...]",
		Short: "Validate every variable and parameter of the bound documents",
		Long: `Validate every dictionary variable and program parameter of the bound
documents and print its value or error. Positional paths replace --path.
Exits with status 1 when any definition is broken.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.paths = args
			}
			a, err := opts.newApp(cmd, all)
			if err != nil {
				return err
			}
			report, err := a.Check(cmd.Context())
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return &ExitError{
					Code:    1,
					Message: fmt.Sprintf("%d of %d definitions failed validation", report.Failed, report.Checked),
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Check every project, line and flow combination.")
	return cmd
}

func newEvalCommand(opts *options) *cobra.Command {
	var typeName, scopeName string
	var sets []string

	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate an expression against the bound documents",
		Long: `Evaluate an expression with every variable visible from --scope in
scope. Numeric types take arithmetic expressions; string and file types
take text with [expr] interpolations. A result that depends on the loop
variable prints as [first, ..., last].`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := model.ParseVarType(typeName)
			if err != nil {
				return usageError(err)
			}
			scope, err := model.ParseScope(scopeName)
			if err != nil {
				return usageError(err)
			}
			a, err := opts.newApp(cmd, false)
			if err != nil {
				return err
			}
			_, err = a.Eval(args[0], typ, scope, sets)
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "float", "Expression type, such as int, float, string or file.")
	cmd.Flags().StringVarP(&scopeName, "scope", "s", "flow", "Scope to evaluate at. Options: 'flow', 'line', 'project'.")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Bind NAME=VALUE for the evaluation (repeatable).")
	return cmd
}

func newPreambleCommand(opts *options) *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "preamble",
		Short: "Print the evaluated variables visible from a scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := model.ParseScope(scopeName)
			if err != nil {
				return usageError(err)
			}
			a, err := opts.newApp(cmd, false)
			if err != nil {
				return err
			}
			return a.Preamble(scope)
		},
	}
	cmd.Flags().StringVarP(&scopeName, "scope", "s", "flow", "Scope to print. Options: 'flow', 'line', 'project'.")
	return cmd
}
