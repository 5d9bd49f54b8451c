// Package world holds the static map catalog the relay serves. Maps are
// loaded once at startup from YAML content files and never mutated, so the
// catalog is safe for concurrent reads.
package world

import (
	"fmt"
	"strings"
)

// Map describes one playable map.
type Map struct {
	ID     string
	Name   string
	Arena  bool
	SpawnX float64
	SpawnY float64
}

// Validate checks that the map is well-formed.
//
// Precondition: None.
// Postcondition: Returns nil if the map is valid, or an error describing
// all violations.
func (m *Map) Validate() error {
	var violations []string

	if m.ID == "" {
		violations = append(violations, "map must have an id")
	}
	if m.Name == "" {
		violations = append(violations, fmt.Sprintf("map %s must have a name", m.ID))
	}

	if len(violations) > 0 {
		return fmt.Errorf("map validation failed: %s", strings.Join(violations, "; "))
	}
	return nil
}

// Catalog indexes maps by ID.
type Catalog struct {
	maps map[string]*Map
}

// NewCatalog builds a catalog from the given maps.
//
// Precondition: Maps must have unique IDs.
// Postcondition: Returns a catalog containing every map, or an error on a
// duplicate ID.
func NewCatalog(maps []*Map) (*Catalog, error) {
	c := &Catalog{maps: make(map[string]*Map, len(maps))}
	for _, m := range maps {
		if _, exists := c.maps[m.ID]; exists {
			return nil, fmt.Errorf("duplicate map id %s", m.ID)
		}
		c.maps[m.ID] = m
	}
	return c, nil
}

// Lookup returns the map with the given ID.
func (c *Catalog) Lookup(id string) (*Map, bool) {
	m, ok := c.maps[id]
	return m, ok
}

// Contains reports whether a map with the given ID exists.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.maps[id]
	return ok
}

// Len returns the number of maps in the catalog.
func (c *Catalog) Len() int {
	return len(c.maps)
}
