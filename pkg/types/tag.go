package types

// Tag 数据项标签（名称/值均为字符串）
//
// 标签列表保持顺序，允许重复的名称或值。
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ItemKind 数据项的承载方式
type ItemKind int

const (
	// ItemKindInMemory 整个信封位于一段连续内存中
	ItemKindInMemory ItemKind = iota
	// ItemKindFileBacked 信封位于可随机访问的文件中
	ItemKindFileBacked
)

func (k ItemKind) String() string {
	switch k {
	case ItemKindInMemory:
		return "in_memory"
	case ItemKindFileBacked:
		return "file_backed"
	default:
		return "invalid"
	}
}
