package xlog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/omeyang/ndckit/pkg/context/xndc"
	"github.com/omeyang/ndckit/pkg/observability/xlog"
)

func BenchmarkLogger_Info(b *testing.B) {
	logger, cleanup, err := xlog.New().
		SetOutput(io.Discard).
		SetDiagnostic(false).
		Build()
	if err != nil {
		b.Fatalf("Build() error: %v", err)
	}
	defer func() { _ = cleanup() }()

	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		logger.Info(ctx, "benchmark line", slog.Int("n", 1))
	}
}

func BenchmarkLogger_InfoDisabled(b *testing.B) {
	logger, cleanup, err := xlog.New().
		SetOutput(io.Discard).
		SetLevel(xlog.LevelError).
		SetDiagnostic(false).
		Build()
	if err != nil {
		b.Fatalf("Build() error: %v", err)
	}
	defer func() { _ = cleanup() }()

	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		logger.Debug(ctx, "filtered out", slog.Int("n", 1))
	}
}

func BenchmarkDiagnosticHandler_Stamping(b *testing.B) {
	reg := xndc.New()
	defer reg.Reset()

	logger, cleanup, err := xlog.New().
		SetOutput(io.Discard).
		SetDiagnosticRegistry(reg).
		Build()
	if err != nil {
		b.Fatalf("Build() error: %v", err)
	}
	defer func() { _ = cleanup() }()

	reg.Push("client=1.2.3.4")
	reg.Push("request=/index")
	defer reg.Remove()

	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		logger.Info(ctx, "stamped line")
	}
}
