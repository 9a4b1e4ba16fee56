package pipeline

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/httputil"
	orgio "github.com/matzehuels/orgchart/pkg/io"
)

// Document is a decoded organization document and the bytes it came from.
type Document struct {
	// Source names where the document was read from.
	Source string

	// Raw holds the undecoded bytes. Its hash keys the frame cache.
	Raw []byte

	// Value is the decoded document, as consumed by [session.Session.Load].
	Value any
}

// ReadSource returns the raw bytes named by opts and whether they came from
// the HTTP cache. URLs are fetched through client; a nil client fetches
// without caching.
func ReadSource(ctx context.Context, client *httputil.Client, opts Options) ([]byte, bool, error) {
	switch {
	case opts.Data != nil:
		return opts.Data, false, nil
	case opts.Input == StdinInput:
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeParse, err, "read stdin")
		}
		return data, false, nil
	case errors.IsURL(opts.Input):
		if client == nil {
			client = httputil.NewClient(nil)
		}
		return client.Fetch(ctx, opts.Input, opts.Refresh)
	default:
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", opts.Input)
			}
			return nil, false, errors.Wrap(errors.ErrCodeParse, err, "read %s", opts.Input)
		}
		return data, false, nil
	}
}

// Decode decodes raw in the format of opts. With FormatAuto a file
// extension decides before content sniffing.
func Decode(raw []byte, opts Options) (any, error) {
	format := opts.Format
	if (format == "" || format == orgio.FormatAuto) && opts.Data == nil && !errors.IsURL(opts.Input) {
		format = orgio.FormatForPath(opts.Input)
	}
	return orgio.Decode(raw, format)
}

func sourceName(opts Options) string {
	switch {
	case opts.Data != nil:
		return "data"
	case opts.Input == StdinInput:
		return "stdin"
	default:
		return opts.Input
	}
}
