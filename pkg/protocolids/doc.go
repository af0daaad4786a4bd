// Package protocolids 定义 Filter / Store 协议的协议 ID 注册表。
//
// # 唯一真源原则
//
// 本包是协议 ID 的唯一权威来源。所有模块和测试在需要协议 ID 时，
// 必须引用本包中的常量，禁止在其他位置定义字面量。
//
// # 协议命名规范
//
//	/vac/waku/{name}/{version}
//
// 例如: /vac/waku/store/2.0.0-beta4
//
// 节点按协议 ID 选择服务方：只有在 ProtoBook 中登记了对应协议的节点
// 才会被选为 Filter 或 Store 的对端。
package protocolids
