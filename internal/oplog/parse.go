package oplog

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"non-destructive-image-editor/internal/algorithms"
)

// ParseOperation reads an operation written as its opcode optionally
// followed by a YAML flow mapping of parameters:
//
//	invert
//	gaussian {radius: 3}
//	crop {start: {x: 0, y: 0}, end: {x: 64, y: 48}}
func ParseOperation(s string) (algorithms.Operation, error) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '{' })
	name, rest := s, ""
	if end >= 0 {
		name, rest = s[:end], strings.TrimSpace(s[end:])
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty opcode", ErrUnknownOperation)
	}

	kind, ok := algorithms.KindByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	info, _ := algorithms.Lookup(kind)

	if rest == "" {
		return info.Decode(nil)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(rest), &doc); err != nil {
		return nil, fmt.Errorf("parse %s params: %w", name, err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s params: expected a mapping, got %q", name, rest)
	}
	return info.Decode(doc.Content[0].Decode)
}

// FormatOperation renders op in the form ParseOperation reads.
func FormatOperation(op algorithms.Operation) string {
	rec, err := encodeRecord(op)
	if err != nil {
		return algorithms.Name(op)
	}
	if rec.Params.Kind == 0 {
		return rec.Op
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(&rec.Params); err != nil {
		return rec.Op
	}
	enc.Close()
	return rec.Op + " " + strings.TrimSpace(buf.String())
}
