package klve

import "testing"

func TestOptionsSchemaHasTopLevelShape(t *testing.T) {
	schema := OptionsSchema()
	if schema["$schema"] != "http://json-schema.org/draft-07/schema#" {
		t.Errorf("$schema = %v, want draft-07", schema["$schema"])
	}
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("properties is not an object")
	}
	if _, ok := props["nodes"]; !ok {
		t.Error("schema is missing a nodes property")
	}
	if _, ok := props["filter"]; !ok {
		t.Error("schema is missing a filter property")
	}
}

func TestOptionsSchemaCoversEveryNodeType(t *testing.T) {
	schema := OptionsSchema()
	props := schema["properties"].(map[string]interface{})
	nodes := props["nodes"].(map[string]interface{})
	groups := nodes["properties"].(map[string]interface{})

	count := 0
	for _, g := range groups {
		group := g.(map[string]interface{})
		leaves := group["properties"].(map[string]interface{})
		count += len(leaves)
	}
	if count != len(NodeTypeTable) {
		t.Errorf("schema covers %d node-type leaves, want %d", count, len(NodeTypeTable))
	}
}
