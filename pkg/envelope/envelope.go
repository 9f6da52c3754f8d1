// Package envelope normalises backend response shapes. The portal talks to a
// backend whose endpoints wrap payloads inconsistently ({data: [...]},
// {items: [...]}, bare arrays, nested envelopes), so every decode goes
// through a single shape-agnostic entry point instead of per-call-site
// unwrapping.
package envelope

import (
	"bytes"
	"encoding/json"

	appErrors "github.com/noah-isme/campus-portal-client/pkg/errors"
)

// priorityKeys are checked first on every node, in order. Conventional
// envelope fields win over idiosyncratic ones.
var priorityKeys = []string{
	"items", "data", "result", "results", "value",
	"values", "records", "entities", "content", "list",
}

// defaultObjectFields are tried by UnwrapObject when the caller names none.
var defaultObjectFields = []string{"data", "profile", "item", "entity", "payload"}

// node is a JSON object with its keys in document order. Decoding through
// the token stream keeps traversal deterministic; Go maps would not.
type node struct {
	keys   []string
	values map[string]json.RawMessage
}

// ExtractList finds the semantically relevant array in an arbitrary response
// body. Bare arrays are returned as-is; objects are searched breadth-first,
// priority keys before an exhaustive fallback over each node's own keys in
// document order. When no array is reachable an empty array is returned,
// never an error.
func ExtractList(raw json.RawMessage) json.RawMessage {
	switch kind(raw) {
	case '[':
		return raw
	case '{':
	default:
		return json.RawMessage("[]")
	}

	root, ok := parseObject(raw)
	if !ok {
		return json.RawMessage("[]")
	}

	queue := []*node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		matched := false
		for _, key := range priorityKeys {
			child, ok := n.values[key]
			if !ok {
				continue
			}
			switch kind(child) {
			case '[':
				return child
			case '{':
				matched = true
				if obj, ok := parseObject(child); ok {
					queue = append(queue, obj)
				}
			}
		}
		if matched {
			continue
		}

		for _, key := range n.keys {
			child := n.values[key]
			switch kind(child) {
			case '[':
				return child
			case '{':
				if obj, ok := parseObject(child); ok {
					queue = append(queue, obj)
				}
			}
		}
	}

	return json.RawMessage("[]")
}

// UnwrapObject peels a single-object envelope. The first named field holding
// an object wins; with no fields given the default envelope set is used.
// An input without any matching field is returned unchanged.
func UnwrapObject(raw json.RawMessage, fields ...string) json.RawMessage {
	if kind(raw) != '{' {
		return raw
	}
	if len(fields) == 0 {
		fields = defaultObjectFields
	}
	obj, ok := parseObject(raw)
	if !ok {
		return raw
	}
	for _, field := range fields {
		child, ok := obj.values[field]
		if ok && kind(child) == '{' {
			return child
		}
	}
	return raw
}

// DecodeList normalises raw into an array and unmarshals its elements.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	list := ExtractList(raw)
	var out []T
	if err := json.Unmarshal(list, &out); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, "decode list payload")
	}
	return out, nil
}

// DecodeObject unwraps a single-object envelope and unmarshals it.
func DecodeObject[T any](raw json.RawMessage, fields ...string) (*T, error) {
	obj := UnwrapObject(raw, fields...)
	out := new(T)
	if err := json.Unmarshal(obj, out); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrParse.Code, appErrors.ErrParse.Status, "decode object payload")
	}
	return out, nil
}

// kind reports the leading JSON token byte, or 0 for empty input.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// parseObject decodes an object preserving key order via the token stream.
func parseObject(raw json.RawMessage) (*node, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	n := &node{values: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		if _, seen := n.values[key]; !seen {
			n.keys = append(n.keys, key)
		}
		n.values[key] = value
	}
	return n, true
}
