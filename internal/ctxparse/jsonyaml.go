// Package ctxparse recovers the key path a value sits under in JSON and
// YAML documents, so findings in structured files can name their field.
package ctxparse

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// KeyLines maps 1-based line numbers to the dotted key path of the scalar
// value on that line. Files that are not .json/.yaml/.yml, or that do not
// parse, yield nil.
func KeyLines(path string, b []byte) map[int]string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONKeys(b)
	case ".yaml", ".yml":
		return YAMLKeys(b)
	}
	return nil
}

type jsonFrame struct {
	object    bool
	key       string
	expectKey bool
}

// JSONKeys walks the token stream of a JSON document. Array elements inherit
// the key of the array.
func JSONKeys(b []byte) map[int]string {
	if !json.Valid(b) {
		return nil
	}
	var newlines []int
	for i, c := range b {
		if c == '\n' {
			newlines = append(newlines, i)
		}
	}
	lineAt := func(off int64) int {
		return sort.SearchInts(newlines, int(off)) + 1
	}

	out := map[int]string{}
	var stack []jsonFrame
	path := func() string {
		var keys []string
		for _, f := range stack {
			if f.object && f.key != "" {
				keys = append(keys, f.key)
			}
		}
		return strings.Join(keys, ".")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		top := len(stack) - 1
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				stack = append(stack, jsonFrame{object: true, expectKey: true})
			case '[':
				stack = append(stack, jsonFrame{})
			default:
				stack = stack[:top]
				if n := len(stack); n > 0 && stack[n-1].object {
					stack[n-1].expectKey = true
				}
			}
			continue
		}
		if s, ok := tok.(string); ok && top >= 0 && stack[top].object && stack[top].expectKey {
			stack[top].key = s
			stack[top].expectKey = false
			continue
		}
		if p := path(); p != "" {
			out[lineAt(dec.InputOffset()-1)] = p
		}
		if top >= 0 && stack[top].object {
			stack[top].expectKey = true
		}
	}
	return out
}

// YAMLKeys uses the node positions yaml.v3 records for scalars.
func YAMLKeys(b []byte) map[int]string {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil
	}
	out := map[int]string{}
	var walk func(n *yaml.Node, path []string)
	walk = func(n *yaml.Node, path []string) {
		switch n.Kind {
		case yaml.DocumentNode, yaml.SequenceNode:
			for _, c := range n.Content {
				walk(c, path)
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				walk(n.Content[i+1], append(path[:len(path):len(path)], n.Content[i].Value))
			}
		case yaml.ScalarNode:
			if len(path) > 0 {
				out[n.Line] = strings.Join(path, ".")
			}
		}
	}
	walk(&root, nil)
	return out
}
