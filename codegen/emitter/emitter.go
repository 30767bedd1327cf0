// Package emitter renders a model into the two C++ translation units expected
// by DNest4: a class header holding the declarations and a source file
// holding from_prior, perturb, log_likelihood, print and description.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/dnest4/modelgen/codegen/ir"
	"github.com/dnest4/modelgen/codegen/naming"
	"github.com/dnest4/modelgen/codegen/placeholder"
	"github.com/dnest4/modelgen/runtime/telemetry"
)

const (
	metricArtifacts = "modelgen.artifacts"
	metricRender    = "modelgen.render"

	bodyIndent = "    "
)

type (
	// Emitter renders models through a pair of templates and writes the
	// resulting artifacts. An Emitter holds no per model state and may be
	// reused.
	Emitter struct {
		templates TemplateSource
		outDir    string
		class     string
		strict    bool
		logger    telemetry.Logger
		tracer    telemetry.Tracer
		metrics   telemetry.Metrics
	}

	// Option configures an Emitter.
	Option func(*Emitter)

	// Result lists the artifacts written by Generate.
	Result struct {
		HeaderPath string
		SourcePath string
	}
)

// WithTemplates sets the template source. Defaults to DefaultTemplates().
func WithTemplates(s TemplateSource) Option {
	return func(e *Emitter) { e.templates = s }
}

// WithOutputDir sets the directory artifacts are written to. Defaults to the
// working directory.
func WithOutputDir(dir string) Option {
	return func(e *Emitter) { e.outDir = dir }
}

// WithClass sets the generated class name. The name goes through
// naming.ClassName.
func WithClass(name string) Option {
	return func(e *Emitter) { e.class = naming.ClassName(name) }
}

// WithStrict makes a template lacking one of the generated blocks an error
// instead of a warning.
func WithStrict(strict bool) Option {
	return func(e *Emitter) { e.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(l telemetry.Logger) Option {
	return func(e *Emitter) { e.logger = l }
}

// WithTracer sets the tracer.
func WithTracer(t telemetry.Tracer) Option {
	return func(e *Emitter) { e.tracer = t }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(e *Emitter) { e.metrics = m }
}

// New returns an Emitter configured with opts.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		templates: DefaultTemplates(),
		outDir:    ".",
		class:     naming.DefaultClass,
		logger:    telemetry.NewNoopLogger(),
		tracer:    telemetry.NewNoopTracer(),
		metrics:   telemetry.NewNoopMetrics(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Class returns the generated class name.
func (e *Emitter) Class() string {
	return e.class
}

// Generate writes both artifacts for m.
func (e *Emitter) Generate(ctx context.Context, m *ir.Model) (*Result, error) {
	if _, err := e.GenerateHeader(ctx, m); err != nil {
		return nil, err
	}
	if _, err := e.GenerateSource(ctx, m); err != nil {
		return nil, err
	}
	return &Result{
		HeaderPath: filepath.Join(e.outDir, naming.HeaderFile(e.class)),
		SourcePath: filepath.Join(e.outDir, naming.SourceFile(e.class)),
	}, nil
}

// GenerateHeader renders the header template with the declarations of m,
// writes it and returns its content.
func (e *Emitter) GenerateHeader(ctx context.Context, m *ir.Model) (string, error) {
	return e.generate(ctx, "GenerateHeader", HeaderTemplate, naming.HeaderFile(e.class), m, e.headerBindings)
}

// GenerateSource renders the source template with the procedure bodies of m,
// writes it and returns its content.
func (e *Emitter) GenerateSource(ctx context.Context, m *ir.Model) (string, error) {
	return e.generate(ctx, "GenerateSource", SourceTemplate, naming.SourceFile(e.class), m, e.sourceBindings)
}

// RenderHeader returns the header text for m without writing it.
func (e *Emitter) RenderHeader(ctx context.Context, m *ir.Model) (string, error) {
	return e.render(ctx, HeaderTemplate, m, e.headerBindings)
}

// RenderSource returns the source text for m without writing it.
func (e *Emitter) RenderSource(ctx context.Context, m *ir.Model) (string, error) {
	return e.render(ctx, SourceTemplate, m, e.sourceBindings)
}

type bindingsFunc func(*ir.Model) (required, optional []placeholder.Binding, err error)

func (e *Emitter) generate(ctx context.Context, op, tmpl, artifact string, m *ir.Model, bind bindingsFunc) (string, error) {
	ctx, span := e.tracer.Start(ctx, "modelgen."+op)
	defer span.End()

	start := time.Now()
	out, err := e.render(ctx, tmpl, m, bind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	e.metrics.RecordTimer(metricRender, time.Since(start), "artifact", artifact)

	path := filepath.Join(e.outDir, artifact)
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil { //nolint:gosec // generated sources are meant to be readable
		span.RecordError(err)
		return "", fmt.Errorf("write %s: %w", artifact, err)
	}
	span.AddEvent("written", "path", path, "bytes", len(out))
	e.metrics.IncCounter(metricArtifacts, 1, "artifact", artifact)
	e.logger.Info(ctx, "artifact written", "path", path, "nodes", m.Len())
	return out, nil
}

func (e *Emitter) render(ctx context.Context, tmpl string, m *ir.Model, bind bindingsFunc) (string, error) {
	src, err := e.templates.ReadTemplate(tmpl)
	if err != nil {
		return "", err
	}
	required, optional, err := bind(m)
	if err != nil {
		return "", fmt.Errorf("assemble %s: %w", tmpl, err)
	}
	e.logger.Debug(ctx, "template blocks", "template", tmpl, "accepted", placeholder.Tokens(src, required))
	src, _ = placeholder.Apply(src, tmpl, optional)
	out, missing := placeholder.Apply(src, tmpl, required)
	if len(missing) == 0 {
		return out, nil
	}
	if e.strict {
		return "", errors.Join(missing...)
	}
	for _, err := range missing {
		e.logger.Warn(ctx, "generated block dropped", "template", tmpl, "err", err)
	}
	return out, nil
}

func (e *Emitter) headerBindings(m *ir.Model) ([]placeholder.Binding, []placeholder.Binding, error) {
	required := []placeholder.Binding{
		{Token: placeholder.Declarations, Value: m.Declarations()},
	}
	return required, e.classBindings(), nil
}

func (e *Emitter) sourceBindings(m *ir.Model) ([]placeholder.Binding, []placeholder.Binding, error) {
	fromPrior, err := m.FromPrior()
	if err != nil {
		return nil, nil, err
	}
	perturb, err := m.Perturb()
	if err != nil {
		return nil, nil, err
	}
	logLikelihood, err := m.LogLikelihood()
	if err != nil {
		return nil, nil, err
	}
	constants, err := m.Definitions(e.class)
	if err != nil {
		return nil, nil, err
	}
	required := []placeholder.Binding{
		{Token: placeholder.FromPrior, Value: ir.IndentLines(fromPrior, bodyIndent)},
		{Token: placeholder.Perturb, Value: ir.IndentLines(perturb, bodyIndent)},
		{Token: placeholder.LogLikelihood, Value: ir.IndentLines(logLikelihood, bodyIndent)},
		{Token: placeholder.Print, Value: ir.IndentLines(m.Print(), bodyIndent)},
		{Token: placeholder.Description, Value: ir.IndentLines(m.Description(), bodyIndent)},
	}
	optional := append(e.classBindings(), placeholder.Binding{
		Token: placeholder.Constants, Value: constants,
	})
	return required, optional, nil
}

func (e *Emitter) classBindings() []placeholder.Binding {
	return []placeholder.Binding{
		{Token: placeholder.Guard, Value: naming.IncludeGuard(e.class)},
		{Token: placeholder.Class, Value: e.class},
	}
}
