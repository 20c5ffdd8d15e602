package xrun

import (
	"context"
	"testing"

	"github.com/omeyang/ndckit/pkg/context/xndc"
)

func TestGoWithName_DiagnosticFrame(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	var full string
	var ok bool

	g, _ := NewGroup(context.Background(), WithRegistry(reg))
	g.GoWithName("ingest", func(ctx context.Context) error {
		full, ok = reg.Current()
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ok {
		t.Fatal("no diagnostic context inside named task")
	}
	if full != "task=ingest" {
		t.Errorf("Current() = %q, want %q", full, "task=ingest")
	}
}

func TestGoWithName_NestedPushes(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	var full string

	g, _ := NewGroup(context.Background(), WithRegistry(reg))
	g.GoWithName("worker", func(ctx context.Context) error {
		reg.Push("request=/index")
		defer reg.Pop()
		full, _ = reg.Current()
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if full != "task=worker request=/index" {
		t.Errorf("Current() = %q, want %q", full, "task=worker request=/index")
	}
}

func TestGoWithName_RemovesEntryOnExit(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	g, _ := NewGroup(context.Background(), WithRegistry(reg))
	g.GoWithName("short-lived", func(ctx context.Context) error {
		// 故意留下未配对的 Push，验证退出清理
		reg.Push("leftover")
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := reg.Len(); n != 0 {
		t.Errorf("registry Len() = %d after task exit, want 0", n)
	}
}

func TestGoWithName_ManyTasksNoResidue(t *testing.T) {
	reg := xndc.New()
	defer reg.Reset()

	g, _ := NewGroup(context.Background(), WithRegistry(reg))
	for i := 0; i < 32; i++ {
		g.GoWithName("batch", func(ctx context.Context) error {
			if _, ok := reg.Current(); !ok {
				t.Error("missing task frame")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := reg.Len(); n != 0 {
		t.Errorf("registry Len() = %d after all tasks exited, want 0", n)
	}
}
