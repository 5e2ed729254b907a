package cache

// Keyer derives cache keys for each pipeline stage. Every key is built
// from the content hash of the stage's input plus the options that affect
// its output.
type Keyer interface {
	// GraphKey addresses the flattened graph of a document.
	GraphKey(docHash string) string

	// LayoutKey addresses a layout of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change positions.
type LayoutKeyOpts struct {
	Direction    string  `json:"direction"`
	NodeWidth    float64 `json:"node_width"`
	HeaderHeight float64 `json:"header_height"`
	RowHeight    float64 `json:"row_height"`
	VPadding     float64 `json:"v_padding"`
	NodeSep      float64 `json:"node_sep"`
	RankSep      float64 `json:"rank_sep"`
	Align        string  `json:"align"`
}

// ArtifactKeyOpts are the render options that change output bytes.
type ArtifactKeyOpts struct {
	Renderer    string  `json:"renderer"`
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	MaxValueLen int     `json:"max_value_len,omitempty"`
	ShowIDs     bool    `json:"show_ids,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<docHash>". The flattening has no options, so
// the document hash is used directly.
func (DefaultKeyer) GraphKey(docHash string) string {
	return "graph:" + docHash
}

// LayoutKey hashes the graph hash together with opts.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the layout hash together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
