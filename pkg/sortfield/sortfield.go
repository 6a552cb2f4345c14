// Package sortfield checks a requested sort field against the set of
// fields a response model actually declares. The allowed set is derived
// from the model's json tags minus an explicit excluded subset, so the
// allow-list can never drift away from the payload the client sees.
package sortfield

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var ErrNotSortable = errors.New("field not available for sorting")

type Checker struct {
	allowed  map[string]struct{}
	excluded []string
}

// New derives the sortable field set from the json tags of model, which
// must be a struct or pointer to struct. Fields named in excluded are
// removed from the allowed set; untagged and json:"-" fields never count.
func New(model interface{}, excluded ...string) (*Checker, error) {
	if model == nil {
		return nil, fmt.Errorf("sortfield: model is nil")
	}

	typ := reflect.TypeOf(model)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sortfield: model must be a struct, got %s", typ.Kind())
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	allowed := make(map[string]struct{})
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			continue
		}

		if _, excl := skip[name]; excl {
			continue
		}

		allowed[name] = struct{}{}
	}

	return &Checker{
		allowed:  allowed,
		excluded: excluded,
	}, nil
}

// Check returns the field unchanged when it is empty (no sort requested)
// or a member of the allowed set. Any other value returns ErrNotSortable.
func (c *Checker) Check(field string) (string, error) {
	if field == "" {
		return "", nil
	}

	if _, ok := c.allowed[field]; !ok {
		return "", fmt.Errorf("%w: '%s'", ErrNotSortable, field)
	}

	return field, nil
}

// AvailableFields return a sorted list of fields a client may sort by.
func (c *Checker) AvailableFields() []string {
	fields := make([]string, 0, len(c.allowed))
	for name := range c.allowed {
		fields = append(fields, name)
	}

	sort.Strings(fields)
	return fields
}

// ExcludedFields return the fields explicitly removed from the allowed set.
func (c *Checker) ExcludedFields() []string {
	out := make([]string, len(c.excluded))
	copy(out, c.excluded)
	return out
}
