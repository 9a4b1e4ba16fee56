package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// =============================================================================
// Frame Serialization API
// =============================================================================

// MarshalFrame encodes f as indented JSON.
func MarshalFrame(f *Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFrame(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFrame writes f as indented JSON to w.
func WriteFrame(f *Frame, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode frame")
	}
	return nil
}

// WriteFrameFile writes f to a JSON file at path.
func WriteFrameFile(f *Frame, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer out.Close()
	return WriteFrame(f, out)
}

// UnmarshalFrame decodes and validates a frame.
func UnmarshalFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid frame JSON")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFrame decodes a frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read frame")
	}
	return UnmarshalFrame(data)
}

// ReadFrameFile decodes the frame stored at path.
func ReadFrameFile(path string) (*Frame, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", path)
	}
	return UnmarshalFrame(data)
}

// Validate checks that node IDs are unique and non-zero and that every
// link and partition list refers to a known node.
func (f *Frame) Validate() error {
	known := make(map[uint64]bool, len(f.Nodes)+len(f.Exiting))
	for _, group := range [][]Node{f.Nodes, f.Exiting} {
		for _, n := range group {
			if n.ID == 0 {
				return invalid("node %q has no id", n.Name)
			}
			if known[n.ID] {
				return invalid("duplicate node id %d", n.ID)
			}
			known[n.ID] = true
		}
	}
	for _, group := range [][]Link{f.Links, f.ExitingLinks} {
		for _, l := range group {
			if !known[l.Source] || !known[l.Target] {
				return invalid("link %d refers to unknown node", l.ID)
			}
		}
	}
	for name, ids := range map[string][]uint64{"enter": f.Enter, "update": f.Update, "exit": f.Exit} {
		for _, id := range ids {
			if !known[id] {
				return invalid("%s list refers to unknown node %d", name, id)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidDocument, "invalid frame: %s", fmt.Sprintf(format, args...))
}
