package dto

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MinUsernameLength 用户名最小长度（去除首尾空格后）
	MinUsernameLength = 3
	// MinPasswordLength 密码最小长度
	MinPasswordLength = 6
)

// 客户端可见的校验错误信息
const (
	MsgUsernameTooShort = "Username must be at least 3 characters"
	MsgInvalidEmail     = "Invalid email format"
	MsgWeakPassword     = "Password must meet complexity requirements (at least one number, at least 6 characters in length)"
)

// 邮箱规则：user@host.tld 的宽松形式
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ============================================================================
// RegisterDTO 验证
// ============================================================================

// Validate 验证注册请求
//
// 返回 字段名→错误信息 的映射；映射为空时 isValid 为 true。
// 纯同步计算，无 I/O、无副作用。会顺带去除用户名首尾空格。
func (d *RegisterDTO) Validate() (map[string]string, bool) {
	errors := make(map[string]string)

	// 用户名：去空格后至少3个字符（存储层的schema约束，在边界提前拦截）
	d.Username = strings.TrimSpace(d.Username)
	if len(d.Username) < MinUsernameLength {
		errors["username"] = MsgUsernameTooShort
	}

	// 邮箱：必填且格式合法
	if d.Email == "" || !emailRegex.MatchString(d.Email) {
		errors["email"] = MsgInvalidEmail
	}

	// 密码：至少6位，至少1个数字和1个小写字母（大写和符号不做要求）
	if !isStrongPassword(d.Password) {
		errors["password"] = MsgWeakPassword
	}

	return errors, len(errors) == 0
}

// isStrongPassword 检查密码复杂度
func isStrongPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}

	var hasDigit, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	return hasDigit && hasLower
}
