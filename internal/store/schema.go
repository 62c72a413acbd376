package store

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema document guarding a persisted key. It is
// compiled on first use.
type Schema struct {
	Name   string
	Source string

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewSchema returns a schema named name with the given JSON source.
func NewSchema(name, source string) *Schema {
	return &Schema{Name: name, Source: source}
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(s.Source))
		if err != nil {
			s.err = errors.Wrapf(err, "parse schema %s", s.Name)
			return
		}
		loc := "cadence://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(loc, doc); err != nil {
			s.err = errors.Wrapf(err, "register schema %s", s.Name)
			return
		}
		s.compiled, s.err = c.Compile(loc)
		if s.err != nil {
			s.err = errors.Wrapf(s.err, "compile schema %s", s.Name)
		}
	})
	return s.compiled, s.err
}

// Validate checks raw JSON against schema. A nil schema accepts anything.
func Validate(schema *Schema, raw []byte) error {
	if schema == nil {
		return nil
	}
	compiled, err := schema.compile()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "decode document")
	}
	return compiled.Validate(inst)
}

// LoadValidated is LoadOnto for documents that must also satisfy schema.
// The document is read once; one failing validation is treated as absent.
func LoadValidated[T any](ctx context.Context, kv KV, key string, base T, schema *Schema) Lookup[T] {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return Lookup[T]{Value: base}
	}
	if err != nil {
		return Lookup[T]{Value: base, Err: err}
	}
	if verr := Validate(schema, raw); verr != nil {
		return Lookup[T]{Value: base, Err: errors.Wrapf(verr, "validate %s", key)}
	}
	return decodeOnto(key, raw, base)
}
