package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray stores tag lists as JSON, while tolerating legacy
// comma-separated data ("cramps, bloating") in both the column and requests.
type StringArray []string

// SplitTags turns a comma-separated string into trimmed, non-empty tags.
func SplitTags(raw string) StringArray {
	parts := strings.Split(raw, ",")
	out := make(StringArray, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Joined renders the tags the way they are shown in prompts.
func (a StringArray) Joined() string {
	return strings.Join(a, ", ")
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.StringArray: Scan on nil pointer")
	}
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.StringArray: unsupported Scan type %T", value)
	}
	*a = parseTagList(raw)
	return nil
}

func (a *StringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*a = normalizeTags(arr)
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("models.StringArray: expected array or comma-separated string")
	}
	*a = SplitTags(single)
	return nil
}

func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func parseTagList(raw string) StringArray {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return StringArray{}
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return normalizeTags(arr)
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return SplitTags(single)
	}
	return SplitTags(raw)
}

func normalizeTags(in []string) StringArray {
	out := make(StringArray, 0, len(in))
	for _, tag := range in {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}
