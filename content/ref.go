package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ref is a reference to another entry by id. Entries may spell a reference
// either as a bare id ("jane") or as an object ({"id": "jane"}); both decode
// to the same Ref and it always encodes as the bare id.
type Ref string

// String returns the referenced id.
func (r Ref) String() string { return string(r) }

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool { return r == "" }

type refObject struct {
	ID string `json:"id" yaml:"id"`
}

// UnmarshalJSON accepts a string, an {id} object or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(strings.TrimSpace(s))
		return nil
	case data[0] == '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = Ref(strings.TrimSpace(obj.ID))
		return nil
	}
	return fmt.Errorf("content: invalid reference %s", data)
}

// MarshalJSON writes the bare id.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// UnmarshalYAML accepts a scalar or an {id} mapping.
func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*r = ""
			return nil
		}
		*r = Ref(strings.TrimSpace(value.Value))
		return nil
	case yaml.MappingNode:
		var obj refObject
		if err := value.Decode(&obj); err != nil {
			return err
		}
		*r = Ref(strings.TrimSpace(obj.ID))
		return nil
	}
	return fmt.Errorf("content: invalid reference at line %d", value.Line)
}

// UnmarshalJSON accepts a bare src string or a {src, alt} object.
func (img *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &img.Src)
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*img = Image(p)
	return nil
}

// UnmarshalYAML accepts a bare src string or a {src, alt} mapping.
func (img *Image) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		img.Src = strings.TrimSpace(value.Value)
		return nil
	}
	var p struct {
		Src string `yaml:"src"`
		Alt string `yaml:"alt"`
	}
	if err := value.Decode(&p); err != nil {
		return err
	}
	img.Src, img.Alt = p.Src, p.Alt
	return nil
}

// refsContain reports whether refs holds id.
func refsContain(refs []Ref, id string) bool {
	for _, r := range refs {
		if string(r) == id {
			return true
		}
	}
	return false
}
