package cmd

import (
	"strconv"

	"github.com/spf13/pflag"
)

// negatedBool is a boolean flag that stores the inverse of its value, so
// --no-blanks and --blanks can share one variable.
type negatedBool struct {
	target *bool
}

var _ pflag.Value = negatedBool{}

func (n negatedBool) String() string {
	if n.target == nil {
		return "false"
	}
	return strconv.FormatBool(!*n.target)
}

func (n negatedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*n.target = !v
	return nil
}

func (n negatedBool) Type() string {
	return "bool"
}

// negatedBoolVar registers a --name flag that sets *target to false.
func negatedBoolVar(fs *pflag.FlagSet, target *bool, name, usage string) {
	f := fs.VarPF(negatedBool{target: target}, name, "", usage)
	f.NoOptDefVal = "true"
}
