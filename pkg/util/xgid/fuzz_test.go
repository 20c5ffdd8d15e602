package xgid_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/omeyang/ndckit/pkg/util/xgid"
)

func FuzzParseHeader(f *testing.F) {
	f.Add("goroutine 1 [running]:")
	f.Add("goroutine 123456 [chan receive, 2 minutes]:")
	f.Add("goroutine  [running]:")
	f.Add("goroutine -1 [running]:")
	f.Add("created by main.main")
	f.Add("")
	f.Add("goroutine 18446744073709551615 [dead]:")

	f.Fuzz(func(t *testing.T, line string) {
		id, ok := xgid.ParseHeader([]byte(line))

		if !ok && id != 0 {
			t.Fatalf("parseHeader(%q) = (%d, false), id must be 0 on failure", line, id)
		}
		if ok {
			rest, found := strings.CutPrefix(line, "goroutine ")
			if !found {
				t.Fatalf("parseHeader(%q) ok without prefix", line)
			}
			digits, _, _ := strings.Cut(rest, " ")
			want, err := strconv.ParseUint(digits, 10, 64)
			// 溢出的 id 在解析过程中回绕，strconv 会报错；只校验可对照的用例。
			if err == nil && want != id {
				t.Fatalf("parseHeader(%q) = %d, want %d", line, id, want)
			}
		}
	})
}
