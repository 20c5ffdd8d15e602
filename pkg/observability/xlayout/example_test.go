package xlayout_test

import (
	"fmt"

	"github.com/omeyang/ndckit/pkg/observability/xlayout"
)

// ExampleNewMessageConverter 演示消息转换器的基本用法。
func ExampleNewMessageConverter() {
	conv := xlayout.NewMessageConverter(nil)

	var buf []byte
	conv.Format(xlayout.Record{Msg: "connection refused"}, &buf)

	fmt.Println(string(buf))
	// Output:
	// connection refused
}

// ExampleNewDiagnosticConverter 演示诊断上下文转换器与消息转换器的组合。
func ExampleNewDiagnosticConverter() {
	diagConv := xlayout.NewDiagnosticConverter(nil)
	msgConv := xlayout.NewMessageConverter(nil)

	ev := xlayout.Record{
		Msg:  "request failed",
		Diag: "client=1.2.3.4 request=/index",
	}

	var buf []byte
	buf = append(buf, '[')
	diagConv.Format(ev, &buf)
	buf = append(buf, "] "...)
	msgConv.Format(ev, &buf)

	fmt.Println(string(buf))
	// Output:
	// [client=1.2.3.4 request=/index] request failed
}
