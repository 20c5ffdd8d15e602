package xndc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withFakeRuntime 将 goroutine 身份和存活枚举替换为可控实现，
// 用于确定性地构造"属主已退出"的注册表状态。
// 返回恢复函数；使用 fake 的测试不可并行。
func withFakeRuntime(t *testing.T, gid *uint64, live *map[uint64]struct{}) {
	t.Helper()
	oldGID, oldLive := currentGID, liveSet
	currentGID = func() uint64 { return *gid }
	liveSet = func() map[uint64]struct{} { return *live }
	t.Cleanup(func() {
		currentGID, liveSet = oldGID, oldLive
	})
}

func TestReapPurgesOnlyDeadEntries(t *testing.T) {
	gid := uint64(1001)
	live := map[uint64]struct{}{1001: {}, 1002: {}}
	withFakeRuntime(t, &gid, &live)

	reg := New(WithReapInterval(1 << 30))

	gid = 1001
	reg.Push("one")
	gid = 1002
	reg.Push("two")
	gid = 1003
	reg.Push("three")
	require.Equal(t, 3, reg.Len())

	// 1003 不在存活集合中，只有它被清除
	assert.Equal(t, 1, reg.Reap())
	assert.Equal(t, 2, reg.Len())

	gid = 1001
	assert.Equal(t, "one", reg.Peek())
	gid = 1002
	assert.Equal(t, "two", reg.Peek())
}

func TestAutoReapTriggersAtInterval(t *testing.T) {
	gid := uint64(1)
	live := map[uint64]struct{}{1: {}}
	withFakeRuntime(t, &gid, &live)

	reg := New(WithReapInterval(4))

	gid = 99 // 不在存活集合中的"死者"先留下条目
	reg.Push("leak")
	gid = 1
	reg.Push("mine")

	// 已发生 2 次注册表访问，再访问 1 次仍未到阈值
	reg.Peek()
	require.Equal(t, 2, reg.Len(), "sweep must not run before the interval")

	reg.Peek() // 第 4 次访问触发清扫
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "mine", reg.Peek())
}

func TestRemoveCountsAsRegistryAccess(t *testing.T) {
	gid := uint64(1)
	live := map[uint64]struct{}{1: {}}
	withFakeRuntime(t, &gid, &live)

	reg := New(WithReapInterval(2))

	gid = 99
	reg.Push("leak") // 访问 1
	gid = 1
	reg.Remove() // 访问 2：触发清扫，死者条目被顺带回收

	assert.Equal(t, 0, reg.Len())
}

func TestReapSkipsEmptyRegistry(t *testing.T) {
	calls := 0
	oldLive := liveSet
	liveSet = func() map[uint64]struct{} {
		calls++
		return map[uint64]struct{}{}
	}
	t.Cleanup(func() { liveSet = oldLive })

	reg := New()
	assert.Equal(t, 0, reg.Reap())
	assert.Zero(t, calls, "empty registry must not pay for a goroutine dump")
}
