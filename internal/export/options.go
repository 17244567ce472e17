package export

import (
	"fmt"
	"sort"
	"strings"

	"stockmeta/internal/config"
)

// DreamstimeDefaultColumns are the numeric columns filled from configuration.
var DreamstimeDefaultColumns = []string{"Free", "W-EL", "P-EL", "SR-EL", "SR-Price", "Editorial"}

// CategoryPair holds the Dreamstime categories derived from an Adobe category.
type CategoryPair struct {
	C2 string
	C3 string
}

// Options carries per-exporter settings.
type Options struct {
	MarkAIKeyword bool
	// Category1 is the fixed Dreamstime "Category 1" value.
	Category1 string
	// Defaults holds Dreamstime numeric column values keyed by column name.
	Defaults    map[string]string
	CategoryMap map[string]CategoryPair
}

// DefaultOptions returns exporter settings with every built-in default.
func DefaultOptions() Options {
	defaults := make(map[string]string, len(DreamstimeDefaultColumns))
	for _, column := range DreamstimeDefaultColumns {
		defaults[column] = "0"
	}
	return Options{
		MarkAIKeyword: true,
		Category1:     "212",
		Defaults:      defaults,
		CategoryMap:   map[string]CategoryPair{},
	}
}

// OptionsFromConfig builds exporter settings from the [export] config section.
func OptionsFromConfig(cfg config.Export) (Options, error) {
	opts := DefaultOptions()
	opts.MarkAIKeyword = cfg.Freepik.MarkAIKeyword
	if value := strings.TrimSpace(cfg.Dreamstime.Category1); value != "" {
		opts.Category1 = value
	}
	for column, value := range cfg.Dreamstime.Defaults {
		opts.Defaults[column] = fmt.Sprint(value)
	}
	mapping, err := ParseCategoryMap(cfg.Dreamstime.AdobeToDTMap)
	if err != nil {
		return Options{}, err
	}
	opts.CategoryMap = mapping
	return opts, nil
}

// ParseCategoryMap converts the decoded adobe_to_dt_map table. Each entry is
// either a table with c2/c3 keys or a one- or two-element array. Zero and
// empty values become empty categories.
func ParseCategoryMap(raw map[string]any) (map[string]CategoryPair, error) {
	out := make(map[string]CategoryPair, len(raw))
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		id := strings.TrimSpace(key)
		switch value := raw[key].(type) {
		case map[string]any:
			out[id] = CategoryPair{C2: categoryValue(value["c2"]), C3: categoryValue(value["c3"])}
		case []any:
			var pair CategoryPair
			if len(value) > 0 {
				pair.C2 = categoryValue(value[0])
			}
			if len(value) > 1 {
				pair.C3 = categoryValue(value[1])
			}
			out[id] = pair
		case []string:
			var pair CategoryPair
			if len(value) > 0 {
				pair.C2 = value[0]
			}
			if len(value) > 1 {
				pair.C3 = value[1]
			}
			out[id] = pair
		default:
			return nil, fmt.Errorf("adobe_to_dt_map[%q]: expected table or array, got %T", key, value)
		}
	}
	return out, nil
}

func categoryValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if !value {
			return ""
		}
	case int64:
		if value == 0 {
			return ""
		}
	case int:
		if value == 0 {
			return ""
		}
	case float64:
		if value == 0 {
			return ""
		}
	}
	return fmt.Sprint(v)
}
