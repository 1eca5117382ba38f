package util

import (
	"regexp"
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_\-]{3,32}$`)
)

// IsValidEmail 验证邮箱格式
func IsValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// IsValidUsername validates the username format
// IsValidUsername 验证用户名格式
// 允许 3-32 位字母、数字、下划线和连字符
func IsValidUsername(s string) bool {
	return usernameRegexp.MatchString(s)
}
