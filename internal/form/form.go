// Package form discovers interactive form fields in a PDF document, exposes
// them as a normalized schema and fills them with caller-supplied values.
//
// The package interprets the low-level PDF object graph (page annotations,
// merged and inherited field dictionaries, parent/kid relationships, field
// flag bitfields) through pdfcpu and translates between that graph and a
// clean name→value model. Rendering, signatures and encryption are out of
// scope; list and combo fields are recognized but not fillable.
package form

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF wraps one document's interactive form. It owns the ordered widget map
// built at construction time and coordinates the discovery and fill passes.
//
// A PDF is safe for concurrent Schema calls but Fill must not run from
// multiple goroutines on the same instance: the staged widget values are
// shared state.
type PDF struct {
	widgets   *widgetMap
	adobeMode bool
	logger    *log.Logger
}

// Option configures a PDF at construction time.
type Option func(*PDF)

// WithAdobeMode toggles Adobe-compatibility behavior for fills: stripping a
// stale XFA template and forcing viewers to regenerate field appearances.
// Enabled by default.
func WithAdobeMode(on bool) Option {
	return func(p *PDF) { p.adobeMode = on }
}

// WithLogger routes diagnostics (parse failures, fill progress) to l. The
// default logger discards everything.
func WithLogger(l *log.Logger) Option {
	return func(p *PDF) {
		if l != nil {
			p.logger = l
		}
	}
}

func newPDF(opts []Option) *PDF {
	p := &PDF{
		widgets:   newWidgetMap(),
		adobeMode: true,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// New builds the widget map from the document in rs. A document that cannot
// be parsed is not fatal: the error is logged and the returned PDF carries an
// empty widget map, observable through a zero-length Schema.
func New(rs io.ReadSeeker, opts ...Option) *PDF {
	p := newPDF(opts)
	ctx, err := readContext(rs)
	if err != nil {
		p.logger.Printf("parse: %v", err)
		return p
	}
	wm, err := discover(ctx)
	if err != nil {
		p.logger.Printf("discover: %v", err)
		return p
	}
	p.widgets = wm
	return p
}

// Open builds the widget map from the document at path.
func Open(path string, opts ...Option) *PDF {
	f, err := os.Open(path)
	if err != nil {
		p := newPDF(opts)
		p.logger.Printf("open %s: %v", path, err)
		return p
	}
	defer f.Close()
	return New(f, opts...)
}

// Len reports the number of discovered widgets.
func (p *PDF) Len() int {
	return p.widgets.len()
}

// Widget returns the discovered widget for a fully qualified field name.
func (p *PDF) Widget(name string) (*Widget, bool) {
	return p.widgets.get(name)
}

// Widgets returns the discovered widgets in first-discovered order.
func (p *PDF) Widgets() []*Widget {
	return p.widgets.all()
}

// Schema returns one record per widget in first-discovered order. Calling
// Schema repeatedly without an intervening Fill yields identical sequences.
func (p *PDF) Schema() []SchemaRecord {
	records := make([]SchemaRecord, 0, p.widgets.len())
	for _, w := range p.widgets.all() {
		records = append(records, w.schemaRecord())
	}
	return records
}

// Fill stages data into the widget map, re-parses the source document from
// scratch and writes the filled result to outPath. Field names absent from
// the widget map are ignored; known fields without a staged value are
// flattened per flatten but never mutated.
//
// The mutated document is serialized to memory first and written to outPath
// in a single call, so a failed fill never leaves a truncated file behind.
// Returns the same PDF for chaining.
func (p *PDF) Fill(src io.ReadSeeker, outPath string, data map[string]any, flatten bool) (*PDF, error) {
	for name, value := range data {
		if w, ok := p.widgets.get(name); ok {
			w.Value = value
		}
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return p, fmt.Errorf("rewind source: %w", err)
	}
	ctx, err := readContext(src)
	if err != nil {
		return p, fmt.Errorf("reload source: %w", err)
	}

	if err := p.applyFill(ctx, data, flatten); err != nil {
		return p, err
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return p, fmt.Errorf("serialize: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return p, fmt.Errorf("write %s: %w", outPath, err)
	}
	return p, nil
}

// FillFile is Fill reading the source document from srcPath.
func (p *PDF) FillFile(srcPath, outPath string, data map[string]any, flatten bool) (*PDF, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return p, fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()
	return p.Fill(f, outPath, data, flatten)
}

// readContext parses a document into a fresh pdfcpu context.
func readContext(rs io.ReadSeeker) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return ctx, nil
}
