package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/penwyp/go-pull-condenser/internal/data/parser"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	var colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->...",
		Short: "Check fight table files against the fight table schema",
		Long: `Check fight table files against the fight table schema without analyzing them.

Examples:
  pull-condenser validate pull-12.json
  pull-condenser validate - < pull-12.json
  pull-condenser validate fights/*.json --no-color`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			} else if colorize {
				color.NoColor = false
			}
			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, inputs []string) error {
	failed := 0

	for _, input := range inputs {
		data, label, err := readInput(stdin, input)
		if err != nil {
			return err
		}

		err = parser.Validate(data)
		if err == nil {
			color.New(color.FgGreen).Fprintf(out, "valid: %s\n", label)
			continue
		}

		failed++
		color.New(color.FgRed).Fprintf(out, "invalid: %s\n", label)

		var verr *parser.ValidationError
		if !errors.As(err, &verr) {
			color.New(color.FgRed).Fprintf(out, "  - %v\n", err)
			continue
		}
		for _, v := range verr.Violations {
			if value, ok := scalar(v.Value); ok {
				color.New(color.FgYellow).Fprintf(out, "  - %s: %s (got %s)\n", v.Field, v.Description, value)
			} else {
				color.New(color.FgYellow).Fprintf(out, "  - %s: %s\n", v.Field, v.Description)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d input(s)", errValidationFailed, failed, len(inputs))
	}
	return nil
}

func readInput(stdin io.Reader, input string) ([]byte, string, error) {
	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", input, err)
	}
	return data, input, nil
}

// scalar renders a violating value when it is short enough to print inline.
func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val), true
	case json.Number:
		return val.String(), true
	case bool, float64, int, int64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}
