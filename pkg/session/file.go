package session

import (
	"github.com/matzehuels/orgchart/pkg/graph"
	orgio "github.com/matzehuels/orgchart/pkg/io"
)

// LoadFile decodes the document at path and loads it. The format follows
// the file extension unless given.
func (s *Session) LoadFile(path string, format orgio.Format) (*graph.Frame, error) {
	doc, err := orgio.ImportFile(path, format)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("read document", "path", path)
	return s.Load(doc)
}

// ReloadFile is LoadFile for a document that changed on disk. A document
// that fails to decode leaves the session untouched.
func (s *Session) ReloadFile(path string, format orgio.Format) (*graph.Frame, error) {
	doc, err := orgio.ImportFile(path, format)
	if err != nil {
		return nil, err
	}
	return s.Reload(doc)
}
