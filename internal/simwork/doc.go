// Package simwork 提供 ndcsim 演示程序的确定性模拟负载。
//
// 生成器由种子完全决定：相同的 Shape 产生相同的客户端地址、
// 请求路径和抖动序列，便于复现与断言。
//
// 此包仅供 cmd/ndcsim 及其测试使用。
package simwork
