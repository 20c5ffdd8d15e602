package xgid_test

import (
	"testing"

	"github.com/omeyang/ndckit/pkg/util/xgid"
)

func BenchmarkID(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = xgid.ID()
	}
}

func BenchmarkIDParallel(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = xgid.ID()
		}
	})
}

func BenchmarkLiveSet(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = xgid.LiveSet()
	}
}

func BenchmarkParseHeader(b *testing.B) {
	line := []byte("goroutine 123456 [chan receive, 2 minutes]:")
	b.ReportAllocs()
	for b.Loop() {
		_, _ = xgid.ParseHeader(line)
	}
}
