// Package slippi 实现主机端回放流协议的客户端。
//
// 连接流程：
//
//	Connect（可选 UDP 广播发现）→ 发送握手
//	→ 循环 NextFrame：读取 4 字节大端长度 + UBJSON 消息体
//	→ REPLAY 消息的 data 字段交给 Dispatcher 逐条遍历事件
//	→ PAYLOADS 填充 schema 表，FRAME_START 更新帧号，POST_FRAME 投影到 GameState
//
// 事件记录的长度完全由连接建立后收到的 PAYLOADS 事件决定；
// 在此之前出现的其他操作码都视为数据不足，本次遍历直接中止。
package slippi
