package types

// ============================================================================
//                              PeerID - 节点标识
// ============================================================================

// PeerID 节点唯一标识符
//
// 外部表示为 Base58 编码的 multihash（与 libp2p peer.ID 的字符串形式一致）。
// 核心逻辑只把它当作不透明的键使用。
type PeerID string

// EmptyPeerID 空节点 ID
const EmptyPeerID PeerID = ""

// String 返回 PeerID 的字符串表示
func (id PeerID) String() string {
	return string(id)
}

// ShortString 返回 PeerID 的短字符串表示
//
// 格式：末尾 8 个字符。libp2p 的 Ed25519 ID 都以 "12D3KooW" 开头，
// 取前缀无法区分节点。
func (id PeerID) ShortString() string {
	s := string(id)
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}

// IsEmpty 检查 PeerID 是否为空
func (id PeerID) IsEmpty() bool {
	return id == EmptyPeerID
}

// Validate 检查 PeerID 是否为合法的 Base58 字符串
func (id PeerID) Validate() error {
	if id.IsEmpty() {
		return ErrEmptyPeerID
	}
	b, err := Base58Decode(string(id))
	if err != nil || len(b) == 0 {
		return ErrInvalidPeerID
	}
	return nil
}

// ParsePeerID 从字符串解析 PeerID
func ParsePeerID(s string) (PeerID, error) {
	id := PeerID(s)
	if err := id.Validate(); err != nil {
		return EmptyPeerID, err
	}
	return id, nil
}
