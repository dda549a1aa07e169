package imagemeta

import (
	"bytes"
	"encoding/json"
	"os"
)

// Sidecar is the on-disk per-image record.
type Sidecar struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// sidecarOverrides holds the only sidecar fields allowed to override derived
// defaults. Nil means the key was absent.
type sidecarOverrides struct {
	Title       *string
	Description *string
}

// readSidecar returns the overrides recorded at path. The boolean is false
// when the sidecar is missing or structurally invalid: not a JSON object, or
// title/description present with a non-string value.
func readSidecar(path string) (sidecarOverrides, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sidecarOverrides{}, false
	}
	return parseSidecar(data)
}

func parseSidecar(data []byte) (sidecarOverrides, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return sidecarOverrides{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return sidecarOverrides{}, false
	}

	var out sidecarOverrides
	for key, dst := range map[string]**string{"title": &out.Title, "description": &out.Description} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return sidecarOverrides{}, false
		}
		*dst = &value
	}
	return out, true
}
