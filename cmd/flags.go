package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/conneroisu/sprout/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output formats accepted by the listing commands.
var outputFormats = []string{"table", "json", "yaml"}

// bindFlags returns a PreRunE binding the command's flags to configuration
// keys. Several commands share a key such as content.dir, so the binding
// happens for the command actually running rather than at init.
func bindFlags(bindings map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		for flagName, configKey := range bindings {
			flag := cmd.Flags().Lookup(flagName)
			if flag == nil {
				return fmt.Errorf("unknown flag %q", flagName)
			}
			if err := viper.BindPFlag(configKey, flag); err != nil {
				return err
			}
		}

		return nil
	}
}

// AddFlagValidation wraps the named flag so invalid values are rejected
// while the command line is parsed, before any RunE runs.
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}

	return v.Value.Set(val)
}

// ValidatePort accepts 1-65535.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}

// ValidateLogLevel accepts the levels the logger understands.
func ValidateLogLevel(level string) error {
	_, err := logging.ParseLevel(level)

	return err
}

// ValidateDir accepts an empty value or an existing directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	return nil
}

// ValidateFormat returns a validator accepting one of formats.
func ValidateFormat(formats []string) func(string) error {
	return func(format string) error {
		for _, f := range formats {
			if strings.EqualFold(format, f) {
				return nil
			}
		}

		return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(formats, ", "))
	}
}
