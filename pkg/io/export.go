package io

import (
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(path string, doc any) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(f, doc)
}
