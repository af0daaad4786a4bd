// Package testutil 提供协议测试用的服务端替身
//
// FilterServer 和 StoreServer 挂在 mocks.Network 的主机上，
// 按线上格式收发帧，让客户端引擎在不接触真实网络的情况下完整运行。
package testutil
