package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	nodes     int
	links     int
	cacheHit  bool
	quiet     bool
}

// artifactPaths returns the output file of each format. A single format
// goes to output verbatim when given; otherwise files are named
// <base>.<format>.
func artifactPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its output file and reports the
// paths. A single artifact with output "-" goes to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	paths := artifactPaths(p.formats, p.input, p.output)
	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return written, fmt.Errorf("no %s artifact rendered", format)
		}
		path := paths[format]
		if path == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return written, err
			}
			continue
		}
		if err := writeFileAtomic(path, data); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	if !p.quiet && len(written) > 0 {
		printSuccess("Rendered %d file(s)", len(written))
		for _, path := range written {
			printFile(path)
		}
		printStats(p.nodes, p.links, p.cacheHit)
	}
	return written, nil
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	out, err := openOutput(path + ".tmp")
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(path + ".tmp")
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path + ".tmp")
		return err
	}
	return os.Rename(path+".tmp", filepath.Clean(path))
}
