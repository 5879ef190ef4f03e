package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidOptions marks a missing or inconsistent command-line option.
var ErrInvalidOptions = errors.New("invalid options")

// RunOptions is the resolved set of options for one split run.
type RunOptions struct {
	// Input is the dyad file to read (.csv or .xlsx).
	Input string `validate:"required"`

	// Output is the file to write. Not needed when Stdout is set.
	Output string `validate:"required_without=Stdout"`

	// Stdout sends the output to the console instead of a file.
	Stdout bool

	// Echo also copies every written line to the console.
	Echo bool

	// IncludeBlanks keeps pairs with blank non-exempt values.
	IncludeBlanks bool

	// MappingFile is a YAML or XLSX mapping definition. Preset is used when
	// it is empty.
	MappingFile string
	Preset      string

	// Exempt adds exempt columns on top of the mapping's own list.
	Exempt []string

	// Delimiter and OutputDelimiter override the mapping's CSV settings.
	Delimiter       string
	OutputDelimiter string

	// Sheet selects the worksheet of an .xlsx input.
	Sheet string

	Workers   int `validate:"gte=0"`
	BatchSize int `validate:"gte=1"`
}

var validate = validator.New()

// Validate checks the option combination. The returned error wraps
// ErrInvalidOptions.
func (o *RunOptions) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("--%s is required", flagName(fe.Field()))
	case "required_without":
		return fmt.Sprintf("--%s is required unless --stdout is set", flagName(fe.Field()))
	case "gte":
		return fmt.Sprintf("--%s must be at least %s", flagName(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("--%s failed %s", flagName(fe.Field()), fe.Tag())
	}
}

func flagName(field string) string {
	switch field {
	case "BatchSize":
		return "batch-size"
	default:
		return strings.ToLower(field)
	}
}
