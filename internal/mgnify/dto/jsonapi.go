package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a JSON scalar stored as text.
//
// MGnify reports some attributes as strings, some as numbers and many as
// null. Value accepts all of them: null becomes "", numbers keep their
// literal text and booleans become "true"/"false".
type Value string

// UnmarshalJSON decodes any JSON scalar into a Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Value(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("unsupported attribute value %s", data)
		}
		*v = Value(data)
	}

	return nil
}

// String returns the text form.
func (v Value) String() string {
	return string(v)
}

// Identifier points at another resource.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Links holds the links object of a resource, relationship or collection.
type Links struct {
	Self    string `json:"self"`
	Related string `json:"related"`
	Next    string `json:"next"`
}

// Relationship is a JSON:API relationship. Data is kept raw because it can
// be null, a single identifier or a list of identifiers.
type Relationship struct {
	Data  json.RawMessage `json:"data"`
	Links Links           `json:"links"`
}

// One decodes a to-one relationship. It returns nil when the relationship
// is null or has no data member.
func (r Relationship) One() (*Identifier, error) {
	if isNull(r.Data) {
		return nil, nil
	}

	var id Identifier
	if err := json.Unmarshal(r.Data, &id); err != nil {
		return nil, fmt.Errorf("to-one relationship: %w", err)
	}

	return &id, nil
}

// Many decodes a to-many relationship. The second return value is false when
// the document carries no data member, meaning the caller has to follow
// Links.Related to learn the members.
func (r Relationship) Many() ([]Identifier, bool, error) {
	if len(r.Data) == 0 {
		return nil, false, nil
	}

	if isNull(r.Data) {
		return nil, true, nil
	}

	var ids []Identifier
	if err := json.Unmarshal(r.Data, &ids); err != nil {
		return nil, false, fmt.Errorf("to-many relationship: %w", err)
	}

	return ids, true, nil
}

// Resource is a single JSON:API resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
	Links         Links                   `json:"links"`
}

// Relationship returns the named relationship, or an empty one.
func (r *Resource) Relationship(name string) Relationship {
	return r.Relationships[name]
}

// DecodeAttributes unmarshals the attributes member into v.
func (r *Resource) DecodeAttributes(v any) error {
	if isNull(r.Attributes) {
		return nil
	}

	if err := json.Unmarshal(r.Attributes, v); err != nil {
		return fmt.Errorf("%s %s attributes: %w", r.Type, r.ID, err)
	}

	return nil
}

// Document is a JSON:API document with a single primary resource.
type Document struct {
	Data     Resource   `json:"data"`
	Included []Resource `json:"included"`
}

// Find returns the included resource with the given type and id.
func (d *Document) Find(id Identifier) *Resource {
	for i := range d.Included {
		if d.Included[i].Type == id.Type && d.Included[i].ID == id.ID {
			return &d.Included[i]
		}
	}

	return nil
}

// Pagination is the meta.pagination object of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
}

// Meta is the meta member of a listing.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Collection is a JSON:API document with a list of primary resources.
type Collection struct {
	Data  []Resource `json:"data"`
	Meta  Meta       `json:"meta"`
	Links Links      `json:"links"`
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
