package converter

// jsonSchemaDialectBase is the dialect URI stamped onto upgraded documents;
// OpenAPI 3.1 uses it as the default $schema for all inline schemas.
const jsonSchemaDialectBase = "https://spec.openapis.org/oas/3.1/dialect/base"

func upgradeRoot30To31(doc map[string]any) {
	doc["openapi"] = Target31
	if _, exists := doc["jsonSchemaDialect"]; !exists {
		doc["jsonSchemaDialect"] = jsonSchemaDialectBase
	}
	if hooks, ok := doc["x-webhooks"]; ok {
		if _, exists := doc["webhooks"]; !exists {
			doc["webhooks"] = hooks
		}
		delete(doc, "x-webhooks")
	}
	walkMappings(doc, upgradeSchema30To31)
}

func downgradeRoot31To30(doc map[string]any) {
	doc["openapi"] = Target30
	delete(doc, "jsonSchemaDialect")
	if hooks, ok := doc["webhooks"]; ok {
		if _, exists := doc["x-webhooks"]; !exists {
			doc["x-webhooks"] = hooks
		}
		delete(doc, "webhooks")
	}
	walkMappings(doc, downgradeSchema31To30)
}

// walkMappings applies rewrite to every mapping in the tree, children first,
// so a rewrite sees its subschemas already converted. Schema keywords are
// rewritten wherever they appear; mappings without them pass through, which
// makes a positional schema detector unnecessary.
func walkMappings(node any, rewrite func(map[string]any)) {
	switch typed := node.(type) {
	case map[string]any:
		for _, v := range typed {
			walkMappings(v, rewrite)
		}
		rewrite(typed)
	case []any:
		for _, v := range typed {
			walkMappings(v, rewrite)
		}
	}
}

// upgradeSchema30To31 rewrites one schema object from the 3.0 dialect to
// 3.1: nullable: true folds into the type and then disappears. nullable:
// false carries no information in either dialect and passes through.
func upgradeSchema30To31(schema map[string]any) {
	if nullable, ok := schema["nullable"].(bool); ok && nullable {
		addNullType(schema)
		delete(schema, "nullable")
	}
}

// downgradeSchema31To30 rewrites one schema object from the 3.1 dialect to
// 3.0: const becomes a single-value enum, type arrays and null enum entries
// fold back into nullable.
func downgradeSchema31To30(schema map[string]any) {
	if c, ok := schema["const"]; ok {
		if _, has := schema["enum"]; !has {
			schema["enum"] = []any{c}
		}
		delete(schema, "const")
	}
	if types, ok := schema["type"].([]any); ok {
		foldNullType(schema, types)
	}
	if enum, ok := schema["enum"].([]any); ok {
		foldNullEnum(schema, enum)
	}
}

// addNullType widens the schema's type to admit null. A schema without a
// type becomes type: ["null"], so the nullability survives the upgrade.
func addNullType(schema map[string]any) {
	switch t := schema["type"].(type) {
	case string:
		if t == "" {
			schema["type"] = []any{"null"}
		} else if t != "null" {
			schema["type"] = []any{t, "null"}
		}
	case []any:
		if !containsNullType(t) {
			schema["type"] = append(t, "null")
		}
	default:
		schema["type"] = []any{"null"}
	}
}

// foldNullType collapses a 3.1 type array for 3.0: a "null" entry becomes
// nullable: true, a single remaining type becomes a scalar. A wider union
// is not expressible in 3.0 and is left as an array rather than rejected.
func foldNullType(schema map[string]any, types []any) {
	remaining := make([]any, 0, len(types))
	sawNull := false
	for _, t := range types {
		if s, ok := t.(string); ok && s == "null" {
			sawNull = true
			continue
		}
		if t != nil {
			remaining = append(remaining, t)
		}
	}
	if sawNull {
		schema["nullable"] = true
	}
	switch len(remaining) {
	case 0:
		delete(schema, "type")
	case 1:
		schema["type"] = remaining[0]
	default:
		schema["type"] = remaining
	}
}

// foldNullEnum strips null entries from an enum for 3.0, recording the
// nullability they expressed. An enum of nothing but null disappears.
func foldNullEnum(schema map[string]any, enum []any) {
	kept := make([]any, 0, len(enum))
	for _, v := range enum {
		if v != nil {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(enum) {
		return
	}
	schema["nullable"] = true
	if len(kept) == 0 {
		delete(schema, "enum")
		return
	}
	schema["enum"] = kept
}

func containsNullType(types []any) bool {
	for _, t := range types {
		if s, ok := t.(string); ok && s == "null" {
			return true
		}
	}
	return false
}
