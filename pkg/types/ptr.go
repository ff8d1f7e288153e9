package types

// StringPtr 返回字符串指针（构造用户配置时使用）
func StringPtr(s string) *string {
	return &s
}

// IntPtr 返回int指针
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr 返回int64指针
func Int64Ptr(i int64) *int64 {
	return &i
}
