package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/ballotview/internal/core/filter"
	"github.com/colonyops/ballotview/internal/core/record"
	"github.com/colonyops/ballotview/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	return criterio.ValidateStruct(
		c.validateView(),
		c.validateDatabase(),
		c.validateTables(),
	)
}

func (c *Config) validateView() error {
	var errs criterio.FieldErrorsBuilder
	if c.View.RowHeight < 1 {
		errs = errs.Append("view.row_height", fmt.Errorf("must be at least 1"))
	}
	if c.View.Overscan < 0 {
		errs = errs.Append("view.overscan", fmt.Errorf("cannot be negative"))
	}
	if c.View.ReflowDebounce < 0 {
		errs = errs.Append("view.reflow_debounce", fmt.Errorf("cannot be negative"))
	}
	if _, ok := styles.GetPalette(c.View.Theme); !ok {
		errs = errs.Append("view.theme", fmt.Errorf("unknown theme %q (available: %v)", c.View.Theme, styles.ThemeNames()))
	}
	return errs.ToError()
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative"))
	}
	return errs.ToError()
}

func (c *Config) validateTables() error {
	var errs criterio.FieldErrorsBuilder
	for _, name := range c.TableNames() {
		tc := c.Tables[name]
		prefix := fmt.Sprintf("tables[%q]", name)

		if comp := tc.CompositeIdentity; comp != nil {
			if comp.ParentField == "" {
				errs = errs.Append(prefix+".composite_identity.parent_field", fmt.Errorf("is required"))
			}
			if comp.SubField == "" {
				errs = errs.Append(prefix+".composite_identity.sub_field", fmt.Errorf("is required"))
			}
		} else if tc.IdentityKey == "" {
			errs = errs.Append(prefix+".identity_key", fmt.Errorf("is required"))
		}

		for _, field := range slices.Sorted(maps.Keys(tc.Fields)) {
			fc := tc.Fields[field]
			fprefix := fmt.Sprintf("%s.fields[%q]", prefix, field)
			if fc.Type != "" && !fc.Type.Valid() {
				errs = errs.Append(fprefix+".type", fmt.Errorf("unknown field type %q", fc.Type))
			}
			if fc.Filter != "" {
				if _, err := filter.ParseKind(string(fc.Filter)); err != nil {
					errs = errs.Append(fprefix+".filter", err)
				}
			}
			if fc.Width < 0 {
				errs = errs.Append(fprefix+".width", fmt.Errorf("cannot be negative"))
			}
		}

		for i, p := range tc.Filterable {
			if !doublestar.ValidatePattern(p) {
				errs = errs.Append(fmt.Sprintf("%s.filterable[%d]", prefix, i), fmt.Errorf("invalid pattern %q", p))
			}
		}
		for i, p := range tc.Sortable {
			if !doublestar.ValidatePattern(p) {
				errs = errs.Append(fmt.Sprintf("%s.sortable[%d]", prefix, i), fmt.Errorf("invalid pattern %q", p))
			}
		}
	}
	return errs.ToError()
}

// ValidateDeep performs Validate and then checks the config file and data
// directory on disk. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, name := range c.TableNames() {
		tc := c.Tables[name]

		for _, col := range tc.Columns {
			if _, ok := tc.Fields[col]; !ok {
				warnings = append(warnings, ValidationWarning{
					Category: "Tables",
					Item:     fmt.Sprintf("%s.columns", name),
					Message:  fmt.Sprintf("column %q has no field configuration and cannot be sorted", col),
				})
			}
		}

		for _, field := range slices.Sorted(maps.Keys(tc.Fields)) {
			fc := tc.Fields[field]
			if fc.Filter == "" {
				continue
			}
			if numericKind(fc.Filter) && fc.Type != record.TypeNumeric {
				warnings = append(warnings, ValidationWarning{
					Category: "Tables",
					Item:     fmt.Sprintf("%s.fields.%s", name, field),
					Message:  fmt.Sprintf("filter %q on a %q field matches only numeric values", fc.Filter, fc.Type),
				})
			}
		}
	}

	return warnings
}

func numericKind(k filter.Kind) bool {
	switch k {
	case filter.NumericExact, filter.NumericRange, filter.Page:
		return true
	}
	return false
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
