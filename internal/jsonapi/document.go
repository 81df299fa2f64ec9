// Package jsonapi decodes JSON:API documents returned by the catalog backend
// and flattens them into the console's domain models.
package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	TypeTopping = "topping"
	TypePizza   = "pizza"
)

var null = []byte("null")

// Document is a JSON:API top-level document
type Document struct {
	Data     PrimaryData            `json:"data"`
	Included []Resource             `json:"included,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// Resource is a single JSON:API resource object
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]interface{}  `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Identifier points at a resource, usually one hoisted into Document.Included
type Identifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Relationship holds the linkage of a to-one or to-many relationship
type Relationship struct {
	Data Linkage `json:"data"`
}

// PrimaryData is either a single resource, a list of resources, or absent.
type PrimaryData struct {
	one     *Resource
	many    []Resource
	isMany  bool
	present bool
}

// One wraps a single resource as primary data
func One(r Resource) PrimaryData {
	return PrimaryData{one: &r, present: true}
}

// Many wraps a list of resources as primary data
func Many(rs []Resource) PrimaryData {
	if rs == nil {
		rs = []Resource{}
	}
	return PrimaryData{many: rs, isMany: true, present: true}
}

// Present reports whether the document carried non-null data
func (d PrimaryData) Present() bool { return d.present }

// IsMany reports whether the data was a list
func (d PrimaryData) IsMany() bool { return d.isMany }

// Single returns the resource of a single-resource document
func (d PrimaryData) Single() (*Resource, bool) {
	if !d.present || d.isMany {
		return nil, false
	}
	return d.one, true
}

// Resources returns the primary data as a list. A single resource becomes a one-element list.
func (d PrimaryData) Resources() []Resource {
	switch {
	case !d.present:
		return nil
	case d.isMany:
		return d.many
	default:
		return []Resource{*d.one}
	}
}

func (d *PrimaryData) UnmarshalJSON(b []byte) error {
	*d = PrimaryData{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, null) {
		return nil
	}

	switch b[0] {
	case '[':
		var many []Resource
		if err := json.Unmarshal(b, &many); err != nil {
			return fmt.Errorf("decoding resource list: %w", err)
		}
		*d = Many(many)
	case '{':
		var one Resource
		if err := json.Unmarshal(b, &one); err != nil {
			return fmt.Errorf("decoding resource: %w", err)
		}
		*d = One(one)
	default:
		return fmt.Errorf("unexpected primary data: %s", b)
	}
	return nil
}

func (d PrimaryData) MarshalJSON() ([]byte, error) {
	switch {
	case !d.present:
		return null, nil
	case d.isMany:
		return json.Marshal(d.many)
	default:
		return json.Marshal(d.one)
	}
}

// Linkage is relationship data: one identifier, a list of them, or null
type Linkage struct {
	one     *Identifier
	many    []Identifier
	isMany  bool
	present bool
}

// ToOne builds a to-one linkage
func ToOne(id Identifier) Linkage {
	return Linkage{one: &id, present: true}
}

// ToMany builds a to-many linkage
func ToMany(ids []Identifier) Linkage {
	if ids == nil {
		ids = []Identifier{}
	}
	return Linkage{many: ids, isMany: true, present: true}
}

// Identifiers normalizes the linkage to a list
func (l Linkage) Identifiers() []Identifier {
	switch {
	case !l.present:
		return nil
	case l.isMany:
		return l.many
	default:
		return []Identifier{*l.one}
	}
}

func (l *Linkage) UnmarshalJSON(b []byte) error {
	*l = Linkage{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, null) {
		return nil
	}

	switch b[0] {
	case '[':
		var many []Identifier
		if err := json.Unmarshal(b, &many); err != nil {
			return fmt.Errorf("decoding relationship identifiers: %w", err)
		}
		*l = ToMany(many)
	case '{':
		var one Identifier
		if err := json.Unmarshal(b, &one); err != nil {
			return fmt.Errorf("decoding relationship identifier: %w", err)
		}
		*l = ToOne(one)
	default:
		return fmt.Errorf("unexpected relationship data: %s", b)
	}
	return nil
}

func (l Linkage) MarshalJSON() ([]byte, error) {
	switch {
	case !l.present:
		return null, nil
	case l.isMany:
		return json.Marshal(l.many)
	default:
		return json.Marshal(l.one)
	}
}

// Decode parses a JSON:API document
func Decode(b []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON:API document: %w", err)
	}
	return &doc, nil
}
