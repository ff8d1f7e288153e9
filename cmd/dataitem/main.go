// Command dataitem 构建、签名、验证与查看数据项信封
package main

func main() {
	Execute()
}
