// Package criteria coerces loosely typed targeting payloads into model.Criteria.
package criteria

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Normalize converts v into canonical criteria. v may be a model.Criteria,
// a *model.Criteria, a decoded JSON/YAML mapping, or nil. Missing fields
// stay absent and malformed fields are dropped; Normalize never fails.
func Normalize(v any) model.Criteria {
	switch c := v.(type) {
	case nil:
		return model.Criteria{}
	case model.Criteria:
		return c
	case *model.Criteria:
		if c == nil {
			return model.Criteria{}
		}
		return *c
	case map[string]any:
		return fromMap(c)
	default:
		zap.L().Debug("criteria: unsupported payload type, using empty criteria",
			zap.String("type", fmt.Sprintf("%T", v)),
		)
		return model.Criteria{}
	}
}

// FromJSON decodes a JSON document and normalizes it.
func FromJSON(data []byte) (model.Criteria, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Criteria{}, eris.Wrap(err, "criteria: decode json")
	}
	return fromMap(m), nil
}

// FromYAML decodes a YAML document and normalizes it.
func FromYAML(data []byte) (model.Criteria, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return model.Criteria{}, eris.Wrap(err, "criteria: decode yaml")
	}
	return fromMap(m), nil
}

// ReadFile loads criteria from a .yaml/.yml file, or JSON for any other
// extension.
func ReadFile(path string) (model.Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Criteria{}, eris.Wrap(err, "criteria: read file")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}

func fromMap(m map[string]any) model.Criteria {
	var c model.Criteria
	if m == nil {
		return c
	}

	c.Industries, _ = decode[[]string](m, "industries", false)
	c.Keywords, _ = decode[[]string](m, "keywords", false)
	c.Technologies, _ = decode[[]string](m, "technologies", false)
	c.Signals, _ = decode[[]string](m, "signals", false)
	c.ExcludeKeywords, _ = decode[[]string](m, "exclude_keywords", false)
	c.SearchQueries, _ = decode[[]string](m, "search_queries", false)

	if raw, ok := m["locations"].([]any); ok {
		c.Locations = make([]model.LocationCriteria, 0, len(raw))
		for _, entry := range raw {
			loc, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			c.Locations = append(c.Locations, model.LocationCriteria{
				City:    stringField(loc, "city"),
				State:   stringField(loc, "state"),
				Country: stringField(loc, "country"),
			})
		}
	}

	// An empty range mapping means no range, not an unbounded one.
	if rm, ok := m["employee_range"].(map[string]any); ok && len(rm) > 0 {
		if r, ok := decode[model.EmployeeRange](m, "employee_range", true); ok {
			c.EmployeeRange = &r
		}
	}
	if rm, ok := m["revenue_range"].(map[string]any); ok && len(rm) > 0 {
		if r, ok := decode[model.RevenueRange](m, "revenue_range", true); ok {
			c.RevenueRange = &r
		}
	}

	return c
}

// decode converts m[field] into a T. The zero T is returned when the field
// is missing or malformed. Range bounds decode weakly so that "50" and 50.0
// both land as 50.
func decode[T any](m map[string]any, field string, weak bool) (T, bool) {
	var out T
	in, ok := m[field]
	if !ok || in == nil {
		return out, false
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           &out,
		WeaklyTypedInput: weak,
	})
	if err != nil {
		return out, false
	}
	if err := dec.Decode(in); err != nil {
		zap.L().Debug("criteria: dropping malformed field",
			zap.String("field", field),
			zap.Error(err),
		)
		var zero T
		return zero, false
	}
	return out, true
}

func stringField(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

