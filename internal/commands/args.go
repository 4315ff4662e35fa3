package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ballotview/internal/app"
	"github.com/colonyops/ballotview/internal/core/sorting"
	"github.com/colonyops/ballotview/internal/core/validate"
)

// assignment is one "Field=value" argument.
type assignment struct {
	Field string
	Value string
}

// parseAssignments reads repeated "Field=value" arguments in order.
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		field = strings.TrimSpace(field)
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q: expected Field=value", arg)
		}
		if err := validate.FieldName(field); err != nil {
			return nil, fmt.Errorf("invalid assignment %q: %w", arg, err)
		}
		out = append(out, assignment{Field: field, Value: value})
	}
	return out, nil
}

// parseSort reads repeated "Field[:asc|desc]" arguments into a spec.
func parseSort(args []string) (sorting.Spec, error) {
	spec := make(sorting.Spec, 0, len(args))
	for _, arg := range args {
		k, err := sorting.ParseKey(arg)
		if err != nil {
			return nil, err
		}
		spec = append(spec, k)
	}
	return spec, nil
}

// tableArgs reads the "<table> [key]" positional arguments. A missing key
// falls back to the key last opened for the table when allowLast is set.
func tableArgs(ctx context.Context, c *cli.Command, a *app.App, allowLast bool) (string, string, error) {
	name := c.Args().Get(0)
	if name == "" {
		return "", "", fmt.Errorf("table name required (known: %v)", a.Config.TableNames())
	}
	if _, err := a.Config.Table(name); err != nil {
		return "", "", err
	}

	key := c.Args().Get(1)
	if key == "" && allowLast {
		if last, ok := a.LastKey(ctx, name); ok {
			key = last
		}
	}
	if key == "" {
		return "", "", fmt.Errorf("dataset key required for %s", name)
	}
	if err := validate.DatasetKeyField("key", key); err != nil {
		return "", "", err
	}
	return name, key, nil
}
