package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false, ServiceName: "studyreuse"}, "test", zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.Nil(t, p.LoggerProvider)
	assert.NotNil(t, p.Meter("studyreuse"))
	assert.NoError(t, p.Shutdown(context.Background()))

	// no-op without a tracer provider
	p.EnableSpanProfiles()
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{1.5, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.ratio).Description(), tt.want)
	}

	// a sampled parent is followed even at ratio 0
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sampler(0)))
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithRemoteSpanContext(context.Background(), parent)
	_, span := tp.Tracer("test").Start(ctx, "child")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
}

func TestBridgeLogger_WithoutLogsProvider(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	p := &Providers{serviceName: "studyreuse"}
	bridged := p.BridgeLogger(base)
	assert.Same(t, base, bridged)

	bridged.Info("hello")
	assert.Equal(t, 1, logs.Len())
}

func TestLevelFilterCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: core, minLevel: zapcore.WarnLevel}
	logger := zap.New(filtered).With(zap.String("component", "test"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "test", entry.ContextMap()["component"])
	assert.False(t, filtered.Enabled(zapcore.DebugLevel))
}

func TestStartProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := StartProfiler(config.ProfilerConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.Running())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("server address required", func(t *testing.T) {
		_, err := StartProfiler(config.ProfilerConfig{Enabled: true, ApplicationName: "studyreuse"}, zap.NewNop())
		assert.Error(t, err)
	})
}
