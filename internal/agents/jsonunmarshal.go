package agents

import "encoding/json"

// unmarshalStrict is a thin wrapper kept separate from extractJSON so the
// parsing step and the extraction step can be tested independently.
func unmarshalStrict(jsonStr string, v any) error {
	return json.Unmarshal([]byte(jsonStr), v)
}
