package xndc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ndckit/pkg/context/xndc"
)

// resetGlobal 隔离依赖默认实例的测试。
func resetGlobal(t *testing.T) {
	t.Helper()
	xndc.ResetDefault()
	t.Cleanup(func() {
		xndc.Reset()
		xndc.ResetDefault()
	})
}

func TestDefaultLazyInit(t *testing.T) {
	resetGlobal(t)

	reg := xndc.Default()
	require.NotNil(t, reg)
	assert.Same(t, reg, xndc.Default())
}

func TestSetDefault(t *testing.T) {
	resetGlobal(t)

	custom := xndc.New(xndc.WithReapInterval(8))
	xndc.SetDefault(custom)
	assert.Same(t, custom, xndc.Default())

	// nil 被忽略
	xndc.SetDefault(nil)
	assert.Same(t, custom, xndc.Default())
}

func TestResetDefault(t *testing.T) {
	resetGlobal(t)

	first := xndc.Default()
	xndc.ResetDefault()
	second := xndc.Default()
	assert.NotSame(t, first, second)
}

func TestPackageLevelSurface(t *testing.T) {
	resetGlobal(t)
	defer xndc.Remove()

	xndc.Push("client=1.2.3.4")
	scope := xndc.Enter("request=/index")

	assert.Equal(t, 2, xndc.Depth())
	assert.False(t, xndc.Empty())
	assert.Equal(t, "request=/index", xndc.Peek())

	dst, ok := xndc.Get(nil)
	require.True(t, ok)
	assert.Equal(t, "client=1.2.3.4 request=/index", string(dst))

	full, ok := xndc.Current()
	require.True(t, ok)
	assert.Equal(t, "client=1.2.3.4 request=/index", full)

	snap := xndc.CloneStack()
	assert.Equal(t, 2, snap.Depth())

	scope.Exit()
	assert.Equal(t, "client=1.2.3.4", xndc.Pop())
	assert.True(t, xndc.Empty())

	xndc.Inherit(snap)
	assert.Equal(t, 2, xndc.Depth())

	xndc.SetMaxDepth(1)
	assert.Equal(t, 1, xndc.Depth())

	xndc.Clear()
	assert.Equal(t, 0, xndc.Depth())

	xndc.PushLogString("raw")
	assert.Equal(t, "raw", xndc.Peek())

	assert.GreaterOrEqual(t, xndc.Len(), 1)
	assert.GreaterOrEqual(t, xndc.Reap(), 0)

	xndc.Reset()
	assert.Equal(t, 0, xndc.Len())
}

func TestAppendLogAttrs(t *testing.T) {
	resetGlobal(t)
	defer xndc.Remove()

	// 空栈：不追加
	assert.Empty(t, xndc.AppendLogAttrs(nil))
	assert.Nil(t, xndc.LogAttrs())

	xndc.Push("client=1.2.3.4")
	xndc.Push("request=/index")

	attrs := xndc.AppendLogAttrs(nil)
	require.Len(t, attrs, 1)
	assert.Equal(t, xndc.KeyNDC, attrs[0].Key)
	assert.Equal(t, "client=1.2.3.4 request=/index", attrs[0].Value.String())

	attrs = xndc.LogAttrs()
	require.Len(t, attrs, 1)
	assert.Equal(t, xndc.KeyNDC, attrs[0].Key)
}
