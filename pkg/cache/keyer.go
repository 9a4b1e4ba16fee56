package cache

// Keyer builds cache keys. Every option that changes the cached bytes must
// take part in the key.
type Keyer interface {
	// HTTPKey keys a remote document by namespace and URL.
	HTTPKey(namespace, key string) string

	// FrameKey keys a laid-out frame by document hash and layout options.
	FrameKey(docHash string, opts FrameKeyOpts) string

	// ArtifactKey keys rendered output by frame hash and render options.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts are the inputs that shape a frame.
type FrameKeyOpts struct {
	Level             int      `json:"level"`
	HorizontalSpacing float64  `json:"horizontal_spacing"`
	VerticalSpacing   float64  `json:"vertical_spacing"`
	NodeSize          float64  `json:"node_size"`
	Extent            float64  `json:"extent,omitempty"`
	ColorMode         string   `json:"color_mode"`
	LicenseField      string   `json:"license_field,omitempty"`
	Dark              bool     `json:"dark,omitempty"`
	Filter            string   `json:"filter,omitempty"`
	Query             string   `json:"query,omitempty"`
	SearchFields      []string `json:"search_fields,omitempty"`
	Reveal            bool     `json:"reveal,omitempty"`
}

// ArtifactKeyOpts are the inputs that shape rendered output.
type ArtifactKeyOpts struct {
	VizType  string `json:"viz_type"`
	Format   string `json:"format"`
	Dark     bool   `json:"dark,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Title    string `json:"title,omitempty"`
	NoLegend bool   `json:"no_legend,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// FrameKey returns "frame:<sha256>".
func (DefaultKeyer) FrameKey(docHash string, opts FrameKeyOpts) string {
	return hashKey("frame", docHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}
