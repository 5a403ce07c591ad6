package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrDuplicateType = errors.New("duplicate type name")

// Parse decodes a catalog produced by the upstream scan. Unknown fields are
// rejected so that a catalog written for a different schema fails loudly.
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	if c.Platform == "" {
		return nil, errors.New("catalog has no platform")
	}

	return &c, nil
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Index returns the types keyed by canonical name. Two types sharing a name
// mean the upstream scan is inconsistent.
func (c *Catalog) Index() (map[string]Type, error) {
	types := make(map[string]Type, len(c.Types))

	for _, t := range c.Types {
		if _, ok := types[t.Name]; ok {
			return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateType, t.Name, c.Platform)
		}
		types[t.Name] = t
	}

	return types, nil
}

// AddMacros appends macros whose names are not yet defined in the catalog and
// returns how many were added.
func (c *Catalog) AddMacros(macros []MacroDefinition) int {
	known := make(map[string]bool, len(c.Macros))
	for _, m := range c.Macros {
		known[m.Name] = true
	}

	added := 0
	for _, m := range macros {
		if known[m.Name] {
			continue
		}
		known[m.Name] = true
		c.Macros = append(c.Macros, m)
		added++
	}

	return added
}
