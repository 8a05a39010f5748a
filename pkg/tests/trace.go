package tests

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// SpanRecorder 内存中记录 span，测试结束后恢复全局 TracerProvider
type SpanRecorder struct {
	*tracetest.SpanRecorder
	provider *sdktrace.TracerProvider
}

// NewSpanRecorder 安装一个全量采样的 TracerProvider
func NewSpanRecorder(t *testing.T) *SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(recorder),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return &SpanRecorder{SpanRecorder: recorder, provider: provider}
}

// Start 开启一个 span
func (r *SpanRecorder) Start(ctx context.Context, name string) (context.Context, func()) {
	ctx, span := r.provider.Tracer("tests").Start(ctx, name)
	return ctx, func() { span.End() }
}

// EventNames 已结束 span 中的全部事件名
func (r *SpanRecorder) EventNames() []string {
	var names []string
	for _, span := range r.Ended() {
		for _, ev := range span.Events() {
			names = append(names, ev.Name)
		}
	}
	return names
}
