// Package lib 包含基础设施工具库
//
// 本目录包含与架构组件无关的通用工具库：
//
//   - log: 日志封装
//   - proto: 网络消息定义
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含以下内容：
//
//   - interfaces/: 组件公共接口（架构核心）
//   - types/: 公共类型定义（架构核心）
//   - protocolids/: 协议 ID 常量
//   - message/: 默认的明文编解码器
//   - lib/: 基础设施工具库（本目录）
package lib
