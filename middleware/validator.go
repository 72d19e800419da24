package middleware

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// ValidatorFunc checks business rules that the schema cannot express, such
// as a path that must exist. Exclusivity belongs in schema groups, not here.
type ValidatorFunc func(ctx Context) error

// NamedValidator associates a name with a ValidatorFunc for error reporting.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File ensures the named entries point at existing files.
func File(names ...string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(names...)}
}

// Dir ensures the named entries point at existing directories.
func Dir(names ...string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(names...)}
}

// Validate runs the validators in order before the action; the first failure
// stops the run with a *ValidationError.
//
//	prog.Use(middleware.Validate(
//	    middleware.File("input"),
//	    middleware.Custom("output_differs", checkOutput),
//	))
func Validate(validators ...NamedValidator) Middleware {
	active := slices.DeleteFunc(slices.Clone(validators), func(v NamedValidator) bool {
		return v.Name == "" || v.Fn == nil
	})
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range active {
				if err := v.Fn(ctx); err != nil {
					return asValidationError(v.Name, err)
				}
			}
			return next(ctx)
		}
	}
}

// Validator runs the CustomValidators of the configuration, sorted by name.
func Validator(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	names := slices.Sorted(maps.Keys(config.CustomValidators))
	validators := make([]NamedValidator, 0, len(names))
	for _, name := range names {
		validators = append(validators, Custom(name, config.CustomValidators[name]))
	}
	return Validate(validators...)
}

// WithCustomValidators adds custom validators to the middleware config
func WithCustomValidators(validators map[string]ValidatorFunc) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		if config.CustomValidators == nil {
			config.CustomValidators = make(map[string]ValidatorFunc)
		}
		for name, validator := range validators {
			config.CustomValidators[name] = validator
		}
	}
}

func asValidationError(name string, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return &ValidationError{Field: name, Message: "validation failed", Cause: err}
}

// ConditionalRequired requires the named entries whenever condition passes.
func ConditionalRequired(condition ValidatorFunc, required ...string) ValidatorFunc {
	return func(ctx Context) error {
		if err := condition(ctx); err != nil {
			return nil
		}
		var missing []string
		for _, name := range required {
			if !isPresent(ctx, name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   strings.Join(missing, ", "),
				Message: "required when condition is met: " + strings.Join(missing, ", "),
			}
		}
		return nil
	}
}

// FileExists ensures string-valued entries point at existing files. Entries
// that did not resolve are skipped.
func FileExists(names ...string) ValidatorFunc {
	return pathValidator(names, "file", validateFileExists)
}

// DirectoryExists ensures string-valued entries point at existing directories.
func DirectoryExists(names ...string) ValidatorFunc {
	return pathValidator(names, "directory", validateDirectoryExists)
}

func pathValidator(names []string, what string, check func(string) error) ValidatorFunc {
	return func(ctx Context) error {
		for _, name := range names {
			path, ok := ctx.String(name)
			if !ok || path == "" {
				continue
			}
			if err := check(path); err != nil {
				return &ValidationError{
					Field:   name,
					Value:   path,
					Message: fmt.Sprintf("%s validation failed for '%s'", what, name),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

// isPresent reports whether an entry holds a non-zero value.
func isPresent(ctx Context, name string) bool {
	v, ok := ctx.Value(name)
	if !ok {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
