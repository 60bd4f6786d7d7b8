package action

import (
	"fmt"
	"os"
	"strings"
)

// Inputs gives access to the task inputs.
type Inputs interface {
	// Required returns the trimmed value of name or a *MissingInputError when
	// it is unset or blank.
	Required(name string) (string, error)
	// Optional returns the trimmed value of name, or "" when unset.
	Optional(name string) string
}

// MissingInputError reports a required input that was not supplied.
type MissingInputError struct{ Name string }

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("Input required and not supplied: %s", e.Name)
}

// EnvInputs reads inputs the way the Actions runner exposes them: INPUT_<NAME>
// with the name upper-cased and spaces replaced by underscores.
type EnvInputs struct {
	Lookup func(key string) (string, bool)
}

// NewEnvInputs reads inputs from the process environment.
func NewEnvInputs() EnvInputs { return EnvInputs{Lookup: os.LookupEnv} }

// InputKey returns the environment variable holding input name.
func InputKey(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

func (e EnvInputs) Optional(name string) string {
	v, _ := e.Lookup(InputKey(name))
	return strings.TrimSpace(v)
}

func (e EnvInputs) Required(name string) (string, error) {
	v := e.Optional(name)
	if v == "" {
		return "", &MissingInputError{Name: name}
	}
	return v, nil
}

// Overlay returns Inputs where non-empty overrides win over base.
func Overlay(base Inputs, overrides map[string]string) Inputs {
	return overlay{base: base, overrides: overrides}
}

type overlay struct {
	base      Inputs
	overrides map[string]string
}

func (o overlay) Optional(name string) string {
	if v := strings.TrimSpace(o.overrides[name]); v != "" {
		return v
	}
	return o.base.Optional(name)
}

func (o overlay) Required(name string) (string, error) {
	if v := strings.TrimSpace(o.overrides[name]); v != "" {
		return v, nil
	}
	return o.base.Required(name)
}
