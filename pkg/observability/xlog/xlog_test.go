package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/omeyang/ndckit/pkg/context/xndc"
	"github.com/omeyang/ndckit/pkg/observability/xlog"
)

// testCleanup 测试辅助函数，在测试结束时执行 cleanup
func testCleanup(t *testing.T, cleanup func() error) {
	t.Helper()
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Errorf("cleanup error: %v", err)
		}
	})
}

// =============================================================================
// Logger 接口测试
// =============================================================================

func TestLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelDebug).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	ctx := context.Background()

	// 测试各级别日志
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	output := buf.String()

	tests := []string{
		"debug message",
		"info message",
		"warn message",
		"error message",
	}

	for _, want := range tests {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\noutput: %s", want, output)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelWarn).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	ctx := context.Background()
	logger.Debug(ctx, "debug hidden")
	logger.Info(ctx, "info hidden")
	logger.Warn(ctx, "warn shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("low level messages leaked\noutput: %s", output)
	}
	if !strings.Contains(output, "warn shown") {
		t.Errorf("warn message missing\noutput: %s", output)
	}
}

func TestLogger_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelInfo).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	childLogger := logger.With(slog.String("service", "ndcsim"))
	childLogger.Info(context.Background(), "with attrs")

	output := buf.String()
	if !strings.Contains(output, "service") || !strings.Contains(output, "ndcsim") {
		t.Errorf("output missing attrs\noutput: %s", output)
	}
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelInfo).
		SetFormat("json").
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	groupLogger := logger.WithGroup("request")
	groupLogger.Info(context.Background(), "grouped", slog.String("method", "GET"))

	output := buf.String()
	if !strings.Contains(output, "request") {
		t.Errorf("output missing group\noutput: %s", output)
	}
}

func TestLogger_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelInfo).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	ctx := context.Background()

	logger.Debug(ctx, "before raise")
	logger.SetLevel(xlog.LevelDebug)
	logger.Debug(ctx, "after raise")

	if got := logger.GetLevel(); got != xlog.LevelDebug {
		t.Errorf("GetLevel() = %v, want %v", got, xlog.LevelDebug)
	}

	output := buf.String()
	if strings.Contains(output, "before raise") {
		t.Errorf("debug logged before level change\noutput: %s", output)
	}
	if !strings.Contains(output, "after raise") {
		t.Errorf("debug missing after level change\noutput: %s", output)
	}
}

func TestLogger_Stack(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Stack(context.Background(), "something broke")

	output := buf.String()
	if !strings.Contains(output, "something broke") {
		t.Errorf("output missing message\noutput: %s", output)
	}
	if !strings.Contains(output, "goroutine") {
		t.Errorf("output missing stack trace\noutput: %s", output)
	}
}

// =============================================================================
// Builder 配置测试
// =============================================================================

func TestBuilder_InvalidFormat(t *testing.T) {
	_, _, err := xlog.New().SetFormat("xml").Build()
	if err == nil {
		t.Fatal("Build() with invalid format should fail")
	}
}

func TestBuilder_InvalidLevelString(t *testing.T) {
	_, _, err := xlog.New().SetLevelString("verbose").Build()
	if err == nil {
		t.Fatal("Build() with invalid level string should fail")
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	// 第一个配置错误后，后续 Set 不覆盖错误
	_, _, err := xlog.New().
		SetFormat("xml").
		SetLevelString("warn").
		Build()
	if err == nil {
		t.Fatal("Build() should surface the first error")
	}
	if !strings.Contains(err.Error(), "format") {
		t.Errorf("err = %v, want format error", err)
	}
}

func TestBuilder_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetFormat("json").
		SetDiagnostic(false).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "json line", slog.Int("n", 42))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if record["msg"] != "json line" {
		t.Errorf("msg = %v, want %q", record["msg"], "json line")
	}
}

func TestBuilder_SetReplaceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetDiagnostic(false).
		SetReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "password" {
				return slog.String("password", "***")
			}
			return a
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "login", slog.String("password", "hunter2"))

	output := buf.String()
	if strings.Contains(output, "hunter2") {
		t.Errorf("sensitive value leaked\noutput: %s", output)
	}
	if !strings.Contains(output, "***") {
		t.Errorf("redacted marker missing\noutput: %s", output)
	}
}

func TestBuilder_SetOnError(t *testing.T) {
	var captured []error
	logger, cleanup, err := xlog.New().
		SetOutput(failingWriter{}).
		SetDiagnostic(false).
		SetOnError(func(err error) {
			captured = append(captured, err)
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "doomed write")

	if len(captured) == 0 {
		t.Fatal("onError callback not invoked on writer failure")
	}
	if got := xlog.ErrorCountForTest(logger); got == 0 {
		t.Error("errorCount not incremented")
	}
}

// failingWriter 总是返回错误的 writer，用于触发 Handler.Handle 失败
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

// =============================================================================
// 诊断上下文注入测试
// =============================================================================

func TestBuilder_DiagnosticStamping(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetFormat("json").
		SetDiagnosticRegistry(reg).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	reg.Push("client=1.2.3.4")
	reg.Push("request=/index")
	defer reg.Remove()

	logger.Info(context.Background(), "handling request")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got := record[xndc.KeyNDC]; got != "client=1.2.3.4 request=/index" {
		t.Errorf("ndc = %v, want %q", got, "client=1.2.3.4 request=/index")
	}
}

func TestBuilder_DiagnosticDisabled(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetDiagnostic(false).
		SetDiagnosticRegistry(reg).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	reg.Push("client=1.2.3.4")
	defer reg.Remove()

	logger.Info(context.Background(), "no stamping")

	if strings.Contains(buf.String(), "client=1.2.3.4") {
		t.Errorf("diagnostic context stamped despite SetDiagnostic(false)\noutput: %s", buf.String())
	}
}

func TestBuilder_DiagnosticEmptyStack(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetFormat("json").
		SetDiagnosticRegistry(reg).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "no context")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if _, present := record[xndc.KeyNDC]; present {
		t.Errorf("ndc attr present for empty stack\noutput: %s", buf.String())
	}
}
