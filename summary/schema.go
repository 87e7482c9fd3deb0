package summary

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
)

// generateSchema reflects T into a JSON schema acceptable to OpenAI strict
// structured outputs: additionalProperties disabled and every property
// required, recursively.
func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	b, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	forceStrictObject(m)
	return m
}

func forceStrictObject(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok && len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			schema["required"] = required
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				forceStrictObject(pm)
			}
		}
	}
	for _, key := range []string{"items", "additionalProperties"} {
		if sub, ok := schema[key].(map[string]any); ok {
			forceStrictObject(sub)
		}
	}
}

// decodeModelJSON unmarshals JSON from a model response, tolerating code
// fences and stray text around the object.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	open := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if open >= 0 && end > open {
		return json.Unmarshal([]byte(s[open:end+1]), v)
	}
	return json.Unmarshal([]byte(s), v)
}
