package klve

import (
	"sort"
	"strings"
)

// OptionsSchema builds a JSON Schema draft-07 document describing Options,
// mechanically from NodeTypeTable so the schema's property names and the
// Go field names used to decode it never drift out of sync by hand. Each
// dotted-path segment (e.g. "literals.numeric") is already the lowerCamel
// property key spec §6's optionsSchema expects, so the group/leaf split is
// plain string slicing.
func OptionsSchema() map[string]interface{} {
	groups := map[string]map[string]interface{}{}
	var groupOrder []string

	for _, e := range NodeTypeTable {
		segs := strings.SplitN(e.Path, ".", 2)
		group := segs[0]
		leaf := segs[1]

		props, ok := groups[group]
		if !ok {
			props = map[string]interface{}{}
			groups[group] = props
			groupOrder = append(groupOrder, group)
		}
		props[leaf] = map[string]interface{}{
			"type":    "boolean",
			"default": true,
		}
	}
	sort.Strings(groupOrder)

	nodeGroups := map[string]interface{}{}
	for _, g := range groupOrder {
		nodeGroups[g] = map[string]interface{}{
			"type":                 "object",
			"properties":           groups[g],
			"additionalProperties": false,
		}
	}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title":   "JsKlveOptions",
		"type":    "object",
		"properties": map[string]interface{}{
			"nodes": map[string]interface{}{
				"type":                 "object",
				"properties":           nodeGroups,
				"additionalProperties": false,
			},
			"filter": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"names": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"include": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
							"exclude": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						},
						"additionalProperties": false,
					},
					"timing": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"before": map[string]interface{}{"type": "boolean", "default": true},
							"after":  map[string]interface{}{"type": "boolean", "default": true},
						},
						"additionalProperties": false,
					},
					"data": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"scopes": map[string]interface{}{"type": "boolean", "default": true},
							"value":  map[string]interface{}{"type": "boolean", "default": true},
							"logs":   map[string]interface{}{"type": "boolean", "default": true},
							"dt":     map[string]interface{}{"type": "boolean", "default": true},
							"loc":    map[string]interface{}{"type": "boolean", "default": true},
						},
						"additionalProperties": false,
					},
				},
				"additionalProperties": false,
			},
		},
		"additionalProperties": false,
	}
}
