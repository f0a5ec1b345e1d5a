package yamlenv

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Env is a config value that may be given literally in YAML or as
// "${VAR}" / "${VAR:default}" resolved from the environment.
type Env[T any] struct {
	Value T
}

func (e *Env[T]) UnmarshalYAML(node *yaml.Node) error {
	raw := node.Value

	if strings.HasPrefix(raw, "${") && strings.HasSuffix(raw, "}") {
		expr := raw[2 : len(raw)-1]

		name, def, hasDef := strings.Cut(expr, ":")

		val, ok := os.LookupEnv(name)
		if !ok {
			if !hasDef {
				return fmt.Errorf("env variable %q is not set", name)
			}
			val = def
		}

		raw = val
	}

	parsed, err := parse[T](raw)
	if err != nil {
		return err
	}

	e.Value = parsed

	return nil
}

func parse[T any](raw string) (T, error) {
	var out T

	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("parse int from %q: %w", raw, err)
		}
		*p = n
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, fmt.Errorf("parse bool from %q: %w", raw, err)
		}
		*p = b
	default:
		if err := yaml.Unmarshal([]byte(raw), &out); err != nil {
			return out, fmt.Errorf("parse %T from %q: %w", out, raw, err)
		}
	}

	return out, nil
}
