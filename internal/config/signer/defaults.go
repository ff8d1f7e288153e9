package signer

// 签名器配置默认值
const (
	// defaultSignatureType 默认签名类型
	defaultSignatureType = "ed25519"

	// defaultKeyPath 默认不指定私钥文件，由命令行参数提供
	defaultKeyPath = ""
)
