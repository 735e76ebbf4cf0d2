package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/tokenizer"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/telemetry"
)

// Observed wraps a provider with logging, metrics, a trace span and an
// optional per-call timeout. It forwards Chat when the inner provider
// supports it.
type Observed struct {
	inner   Provider
	name    string
	model   string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.Collector
	tok     *tokenizer.Tokenizer
}

// ObserveOption configures an Observed provider.
type ObserveOption func(*Observed)

// WithTimeout bounds every call. Zero means no extra bound.
func WithTimeout(d time.Duration) ObserveOption {
	return func(o *Observed) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) ObserveOption {
	return func(o *Observed) { o.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) ObserveOption {
	return func(o *Observed) { o.metrics = m }
}

// WithTokenizer sets the tokenizer used for prompt accounting.
func WithTokenizer(t *tokenizer.Tokenizer) ObserveOption {
	return func(o *Observed) { o.tok = t }
}

// Observe wraps p.
func Observe(p Provider, opts ...ObserveOption) *Observed {
	name, model := Describe(p)
	o := &Observed{inner: p, name: name, model: model, logger: logging.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate implements Provider.
func (o *Observed) Generate(ctx context.Context, prompt string) (string, error) {
	return o.call(ctx, "llm.generate", prompt, func(ctx context.Context) (string, error) {
		return o.inner.Generate(ctx, prompt)
	})
}

// Chat implements Chatter.
func (o *Observed) Chat(ctx context.Context, messages []Message) (string, error) {
	return o.call(ctx, "llm.chat", FlattenMessages(messages), func(ctx context.Context) (string, error) {
		return Chat(ctx, o.inner, messages)
	})
}

func (o *Observed) call(ctx context.Context, op, prompt string, fn func(context.Context) (string, error)) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	tokens := tokenizer.Estimate(prompt)
	if o.tok != nil {
		tokens = o.tok.Count(prompt)
	}

	ctx, span := telemetry.Start(ctx, op,
		attribute.String("llm.provider", o.name),
		attribute.String("llm.model", o.model),
		attribute.Int("llm.prompt_tokens", tokens),
	)

	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	o.metrics.RecordLLM(o.name, err, elapsed, tokens)
	telemetry.End(span, err)

	if err != nil {
		o.logger.Warnf("%s via %s/%s failed after %s: %v", op, o.name, o.model, elapsed.Round(time.Millisecond), err)
		return "", err
	}
	o.logger.Debugf("%s via %s/%s: %d prompt tokens, %d chars out in %s",
		op, o.name, o.model, tokens, len(out), elapsed.Round(time.Millisecond))
	return out, nil
}

// ProviderName implements Describer.
func (o *Observed) ProviderName() string { return o.name }

// GetModel implements Describer.
func (o *Observed) GetModel() string { return o.model }
