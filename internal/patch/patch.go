// Package patch applies RFC 6902 JSON Patch documents to typed values.
//
// Application is all-or-nothing: the target is only overwritten when every
// operation applied cleanly and the result decodes back into the target type.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "gopkg.in/evanphx/json-patch.v4"
)

// ErrEmptyPatch is returned for a document without operations.
var ErrEmptyPatch = errors.New("patch document has no operations")

// ValidationError lists every problem found while applying a patch, in
// operation order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid patch: " + strings.Join(e.Messages, "; ")
}

// Decode parses a JSON Patch document.
func Decode(doc []byte) (jsonpatch.Patch, error) {
	ops, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return nil, &ValidationError{Messages: []string{"malformed patch document: " + err.Error()}}
	}
	if len(ops) == 0 {
		return nil, ErrEmptyPatch
	}
	return ops, nil
}

// Apply decodes doc and applies it to target.
func Apply[T any](doc []byte, target *T) error {
	ops, err := Decode(doc)
	if err != nil {
		return err
	}
	return ApplyOps(ops, target)
}

// ApplyOps applies already decoded operations to target. On failure the
// returned error is a *ValidationError and target is left untouched.
func ApplyOps[T any](ops jsonpatch.Patch, target *T) error {
	if len(ops) == 0 {
		return ErrEmptyPatch
	}

	current, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("patch: encode target: %w", err)
	}

	var messages []string
	for i, op := range ops {
		next, err := jsonpatch.Patch{op}.Apply(current)
		if err != nil {
			messages = append(messages, describe(i, op, err))
			continue
		}
		current = next
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}

	var patched T
	dec := json.NewDecoder(bytes.NewReader(current))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patched); err != nil {
		return &ValidationError{Messages: []string{decodeMessage(err)}}
	}

	*target = patched
	return nil
}

func describe(i int, op jsonpatch.Operation, err error) string {
	path, perr := op.Path()
	if perr != nil {
		path = "?"
	}
	return fmt.Sprintf("operation %d (%s %s): %v", i, op.Kind(), path, err)
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %q: cannot use %s as %s", typeErr.Field, typeErr.Value, typeErr.Type)
	}
	return strings.TrimPrefix(err.Error(), "json: ")
}
