package server

import (
	"encoding/base64"
	"net/http"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/jsonflow/pkg/buildinfo"
	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/document"
	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/layout"
	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// =============================================================================
// Requests and Responses
// =============================================================================

// docRequest is embedded by every request that carries a document. The
// document is either a JSON value, sent as is, or a string holding JSON
// or YAML text.
type docRequest struct {
	Document gojson.RawMessage `json:"document"`
	Options  pipeline.Options  `json:"options"`
}

type flattenResponse struct {
	Graph    graph.Graph `json:"graph"`
	Stats    statsBody   `json:"stats"`
	CacheHit bool        `json:"cache_hit"`
}

type statsBody struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	Rows  int `json:"rows"`
}

type layoutResponse struct {
	Layout   graph.Layout `json:"layout"`
	CacheHit bool         `json:"cache_hit"`
}

// artifact is one rendered output. Text formats are returned verbatim,
// binary formats base64 encoded.
type artifact struct {
	ContentType string `json:"content_type"`
	Encoding    string `json:"encoding"`
	Data        string `json:"data"`
}

type renderResponse struct {
	Artifacts map[string]artifact `json:"artifacts"`
	CacheInfo pipeline.CacheInfo  `json:"cache_info"`
}

type reparentRequest struct {
	docRequest
	Node      string `json:"node"`
	NewParent string `json:"new_parent"`
}

type transferRequest struct {
	docRequest
	Source string `json:"source"`
	Target string `json:"target"`
	Row    *int   `json:"row"`
}

type applyRequest struct {
	docRequest
	Edits []edit.Edit `json:"edits"`
}

// editResponse returns the edited document as text together with its
// new graph, so the caller can replace its editor text and re-render in
// one round trip.
type editResponse struct {
	Document string            `json:"document"`
	Graph    graph.Graph       `json:"graph"`
	Changes  []document.Change `json:"changes"`
	Applied  int               `json:"applied"`
}

type dropRequest struct {
	Layout    graph.Layout `json:"layout"`
	Dragged   string       `json:"dragged"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Threshold float64      `json:"threshold"`
}

type dropResponse struct {
	Target string `json:"target,omitempty"`
	Found  bool   `json:"found"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	var req docRequest
	data, opts, ok := s.readDoc(w, r, &req, &req)
	if !ok {
		return
	}
	g, hit, err := s.runner.FlattenWithCacheInfo(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows := 0
	for i := range g.Nodes {
		rows += g.Nodes[i].RowCount()
	}
	writeJSON(w, http.StatusOK, flattenResponse{
		Graph:    *g,
		Stats:    statsBody{Nodes: len(g.Nodes), Edges: len(g.Edges), Rows: rows},
		CacheHit: hit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req docRequest
	data, opts, ok := s.readDoc(w, r, &req, &req)
	if !ok {
		return
	}
	g, flatHit, err := s.runner.FlattenWithCacheInfo(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, CacheHit: flatHit && hit})
}

// handleRender returns every requested artifact as JSON. With ?raw=1 and a
// single format the artifact bytes are written directly.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req docRequest
	data, opts, ok := s.readDoc(w, r, &req, &req)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("raw") != ""
	if raw && len(opts.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "raw output needs exactly one format, got %d", len(opts.Formats)))
		return
	}
	res, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if raw {
		format := pipeline.FormatSVG
		if len(opts.Formats) == 1 {
			format = opts.Formats[0]
		}
		w.Header().Set("Content-Type", contentType(format))
		_, _ = w.Write(res.Artifacts[format])
		return
	}

	out := renderResponse{Artifacts: make(map[string]artifact, len(res.Artifacts)), CacheInfo: res.CacheInfo}
	for format, b := range res.Artifacts {
		out.Artifacts[format] = encodeArtifact(format, b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReparent(w http.ResponseWriter, r *http.Request) {
	var req reparentRequest
	data, opts, ok := s.readDoc(w, r, &req, &req.docRequest)
	if !ok {
		return
	}
	s.runEdits(w, r, data, opts, []edit.Edit{edit.Reparent(req.Node, req.NewParent)})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	data, opts, ok := s.readDoc(w, r, &req, &req.docRequest)
	if !ok {
		return
	}
	if req.Row == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidEdit, "row is required"))
		return
	}
	s.runEdits(w, r, data, opts, []edit.Edit{edit.Transfer(req.Source, req.Target, *req.Row)})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	data, opts, ok := s.readDoc(w, r, &req, &req.docRequest)
	if !ok {
		return
	}
	if len(req.Edits) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidEdit, "edits are required"))
		return
	}
	s.runEdits(w, r, data, opts, req.Edits)
}

func (s *Server) runEdits(w http.ResponseWriter, r *http.Request, data []byte, opts pipeline.Options, edits []edit.Edit) {
	ctx := r.Context()
	if err := opts.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.SetDefaults()

	before, err := pipeline.Decode(ctx, data, opts.Input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	after, err := pipeline.ApplyEdits(before, edits, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := codec.Marshal(after)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
		return
	}
	changes := document.Diff(before, after)
	if changes == nil {
		changes = []document.Change{}
	}
	writeJSON(w, http.StatusOK, editResponse{
		Document: string(text),
		Graph:    *pipeline.Flatten(ctx, after),
		Changes:  changes,
		Applied:  len(edits),
	})
}

func (s *Server) handleDropTarget(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateNodeID(req.Dragged); err != nil {
		s.writeError(w, r, err)
		return
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.opts.DropThreshold
	}
	target, found := layout.DropTarget(req.Layout, req.Dragged, req.X, req.Y, threshold)
	writeJSON(w, http.StatusOK, dropResponse{Target: target, Found: found})
}

// =============================================================================
// Helpers
// =============================================================================

// readDoc decodes the request into v, whose embedded docRequest is doc,
// and returns the document bytes with server defaults merged into the
// options. On failure it has already written the error response.
func (s *Server) readDoc(w http.ResponseWriter, r *http.Request, v any, doc *docRequest) ([]byte, pipeline.Options, bool) {
	if err := s.decode(w, r, v); err != nil {
		s.writeError(w, r, err)
		return nil, pipeline.Options{}, false
	}
	data, err := documentBytes(doc.Document)
	if err != nil {
		s.writeError(w, r, err)
		return nil, pipeline.Options{}, false
	}
	opts := s.withDefaults(doc.Options)
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	return data, opts, true
}

// documentBytes unwraps a string-valued document into its text; any
// other JSON value is the document itself.
func documentBytes(raw gojson.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var text string
	if err := gojson.Unmarshal(raw, &text); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "document")
	}
	return []byte(text), nil
}

// withDefaults fills zero request options from the server defaults.
func (s *Server) withDefaults(o pipeline.Options) pipeline.Options {
	d := s.opts.Defaults
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	if o.Align == "" {
		o.Align = d.Align
	}
	if o.NodeSep == 0 {
		o.NodeSep = d.NodeSep
	}
	if o.RankSep == 0 {
		o.RankSep = d.RankSep
	}
	if o.Dimensions == (graph.Dimensions{}) {
		o.Dimensions = d.Dimensions
	}
	if o.Renderer == "" {
		o.Renderer = d.Renderer
	}
	if len(o.Formats) == 0 {
		o.Formats = d.Formats
	}
	if o.MaxValueLen == 0 {
		o.MaxValueLen = d.MaxValueLen
	}
	return o
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	}
	return "text/vnd.graphviz"
}

func encodeArtifact(format string, b []byte) artifact {
	a := artifact{ContentType: contentType(format)}
	if format == pipeline.FormatPNG || format == pipeline.FormatPDF || !utf8.Valid(b) {
		a.Encoding = "base64"
		a.Data = base64.StdEncoding.EncodeToString(b)
		return a
	}
	a.Encoding = "utf-8"
	a.Data = string(b)
	return a
}
