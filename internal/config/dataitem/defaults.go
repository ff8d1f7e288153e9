package dataitem

// 数据项配置默认值
const (
	// defaultFileThresholdBytes 载荷超过 64MB 时改用文件承载的数据项
	defaultFileThresholdBytes int64 = 64 << 20

	// defaultTempDir 空字符串表示使用 os.TempDir()
	defaultTempDir = ""

	// defaultStreamBufferSize 流式哈希读缓冲 256KB
	defaultStreamBufferSize = 256 << 10

	// minStreamBufferSize 读缓冲下限
	minStreamBufferSize = 4 << 10
)
