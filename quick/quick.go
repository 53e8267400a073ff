// Package quick offers reflection-driven, string-keyed configuration for
// callers that want to reconfigure the default limlog facade from a small
// number of "key=value" tokens (a CLI flag, an environment variable) rather
// than building a limlog.Config literal.
package quick

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/coredump-labs/limlog"
)

// config parses configuration strings into a limlog.Config.
// Each argument should be in "key=value" format where key matches the
// struct's toml tag. The function handles type conversion for each field.
func config(args ...string) (*limlog.Config, error) {
	cfg := &limlog.Config{}
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid config format: %s", arg)
		}

		if err := setValue(cfg, key, value); err != nil {
			return nil, fmt.Errorf("config error: %s", err)
		}
	}
	return cfg, nil
}

// parseKeyValue splits a configuration string into key and value parts.
// Input format must be "key=value". Leading and trailing spaces are removed
// from both parts. Returns error if format is invalid.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid format")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// setValue updates a limlog.Config field using reflection. Field matching
// is case-insensitive. Special handling is provided for the "level" field
// to accept a level name. Returns error if the field is unknown or value
// cannot be converted to the required type.
func setValue(cfg *limlog.Config, key, value string) error {
	key = strings.ToLower(key)

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if tag := field.Tag.Get("toml"); tag == key {
			f := v.Field(i)
			if !f.IsValid() {
				return fmt.Errorf("unknown config key: %s", key)
			}

			switch f.Kind() {
			case reflect.Int, reflect.Int64:
				val, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid integer value for %s: %s", key, value)
				}
				f.SetInt(val)

			case reflect.String:
				if key == "level" {
					if _, ok := limlog.ParseLevel(value); !ok {
						return fmt.Errorf("invalid level: %s", value)
					}
				}
				f.SetString(value)

			case reflect.Bool:
				val, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid bool value for %s: %s", key, value)
				}
				f.SetBool(val)

			default:
				return fmt.Errorf("unsupported config type for %s", key)
			}

			return nil
		}
	}
	return fmt.Errorf("unknown config key: %s", key)
}
