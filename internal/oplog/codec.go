// Package oplog serializes ordered operation lists.
//
// A log is a versioned YAML document listing operations by opcode name
// with their parameters. The same encoding backs the <image>.ops sidecar
// written next to a saved image and standalone .macro files.
package oplog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"non-destructive-image-editor/internal/algorithms"
)

const (
	// FormatName identifies an operation log document.
	FormatName = "andie-oplog"
	// Version is the newest document version this package reads and the
	// one it writes.
	Version = 1

	OpsExt   = ".ops"
	MacroExt = ".macro"
)

// Log is a decoded operation log.
type Log struct {
	ID         uuid.UUID
	Created    time.Time
	Version    int
	Operations []algorithms.Operation
	// Skipped lists opcodes that were not recognised and left out of
	// Operations.
	Skipped []string
}

type record struct {
	Op     string     `yaml:"op"`
	Params yaml.Node `yaml:"params,omitempty"`
}

type document struct {
	Format     string    `yaml:"format"`
	Version    int       `yaml:"version"`
	ID         string    `yaml:"id"`
	Created    time.Time `yaml:"created"`
	Operations []record  `yaml:"operations"`
}

// NewLog wraps ops in a log with a fresh id.
func NewLog(ops []algorithms.Operation) *Log {
	return &Log{
		ID:         uuid.New(),
		Created:    time.Now().UTC().Truncate(time.Second),
		Version:    Version,
		Operations: ops,
	}
}

// Encode writes ops as a new log document.
func Encode(w io.Writer, ops []algorithms.Operation) error {
	return NewLog(ops).Encode(w)
}

// Encode writes the log as YAML.
func (l *Log) Encode(w io.Writer) error {
	doc := document{
		Format:     FormatName,
		Version:    Version,
		ID:         l.ID.String(),
		Created:    l.Created,
		Operations: make([]record, 0, len(l.Operations)),
	}

	for i, op := range l.Operations {
		rec, err := encodeRecord(op)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		doc.Operations = append(doc.Operations, rec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode op log: %w", err)
	}
	return enc.Close()
}

func encodeRecord(op algorithms.Operation) (record, error) {
	if err := algorithms.Validate(op); err != nil {
		return record{}, err
	}
	rec := record{Op: algorithms.Name(op)}

	var node yaml.Node
	if err := node.Encode(op); err != nil {
		return record{}, fmt.Errorf("encode %s params: %w", rec.Op, err)
	}
	if len(node.Content) > 0 {
		node.Style = yaml.FlowStyle
		rec.Params = node
	}
	return rec, nil
}

// Decode reads a log document. Records with unknown opcodes are skipped
// and listed in Log.Skipped; a known opcode with invalid parameters fails
// the whole log with an *algorithms.InvalidParameterError.
func Decode(r io.Reader) (*Log, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyLog
		}
		return nil, fmt.Errorf("decode op log: %w", err)
	}

	if doc.Format != FormatName {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, doc.Format)
	}
	if doc.Version < 1 || doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	log := &Log{
		Created:    doc.Created,
		Version:    doc.Version,
		Operations: make([]algorithms.Operation, 0, len(doc.Operations)),
	}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("decode op log id: %w", err)
		}
		log.ID = id
	}

	for i, rec := range doc.Operations {
		kind, ok := algorithms.KindByName(rec.Op)
		if !ok {
			log.Skipped = append(log.Skipped, rec.Op)
			continue
		}
		info, _ := algorithms.Lookup(kind)

		var params algorithms.ParamDecoder
		if rec.Params.Kind != 0 {
			params = rec.Params.Decode
		}
		op, err := info.Decode(params)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		log.Operations = append(log.Operations, op)
	}
	return log, nil
}

// WriteFile writes ops to path atomically: the document goes to a
// temporary file in the same directory which then replaces path.
func WriteFile(path string, ops []algorithms.Operation) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = Encode(tmp, ops); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return nil
}

// ReadFile decodes the log stored at path.
func ReadFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

// OpsPath returns the sidecar log path for an image file.
func OpsPath(imagePath string) string {
	return imagePath + OpsExt
}

// MacroPath appends the macro extension unless path already has it.
func MacroPath(path string) string {
	if strings.HasSuffix(path, MacroExt) {
		return path
	}
	return path + MacroExt
}
