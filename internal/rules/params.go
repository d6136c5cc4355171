package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Config is the resolved parameter set of one rule for one run.
type Config struct {
	values map[string]any
}

// DefaultConfig holds only the schema defaults.
func DefaultConfig(schema []Param) Config {
	c, _ := ResolveConfig(schema, nil)
	return c
}

// ResolveConfig overlays user values on the schema defaults. Значения
// неверного типа и неизвестные ключи пропускаются; их описания возвращаются.
func ResolveConfig(schema []Param, overrides map[string]any) (Config, []string) {
	c := Config{values: make(map[string]any, len(schema))}
	for _, p := range schema {
		c.values[strings.ToLower(p.Name)] = p.Default
	}
	var ignored []string
	for key, raw := range overrides {
		p, ok := findParam(schema, key)
		if !ok {
			ignored = append(ignored, fmt.Sprintf("unknown parameter %q", key))
			continue
		}
		v, ok := coerce(p.Type, raw)
		if !ok {
			ignored = append(ignored, fmt.Sprintf("parameter %q: cannot use %v as %s", p.Name, raw, p.Type))
			continue
		}
		c.values[strings.ToLower(p.Name)] = v
	}
	return c, ignored
}

func findParam(schema []Param, name string) (Param, bool) {
	for _, p := range schema {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Param{}, false
}

func coerce(t ParamType, raw any) (any, bool) {
	switch t {
	case ParamInt:
		switch v := raw.(type) {
		case int:
			return v, true
		case int64:
			if v > math.MaxInt32 || v < math.MinInt32 {
				return nil, false
			}
			return int(v), true
		case float64:
			if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
				return nil, false
			}
			return int(v), true
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return n, err == nil
		}
	case ParamFloat:
		switch v := raw.(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		case int:
			return float64(v), true
		}
	case ParamBool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			return b, err == nil
		}
	case ParamString:
		if v, ok := raw.(string); ok {
			return v, true
		}
	}
	return nil, false
}

// Int returns an integer parameter; 0 when absent.
func (c Config) Int(name string) int {
	v, _ := c.values[strings.ToLower(name)].(int)
	return v
}

func (c Config) Bool(name string) bool {
	v, _ := c.values[strings.ToLower(name)].(bool)
	return v
}

func (c Config) String(name string) string {
	v, _ := c.values[strings.ToLower(name)].(string)
	return v
}

func (c Config) Float(name string) float64 {
	v, _ := c.values[strings.ToLower(name)].(float64)
	return v
}

// Values returns a copy of the resolved parameters keyed by lower-case name.
func (c Config) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
