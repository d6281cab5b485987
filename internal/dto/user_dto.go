package dto

import "time"

// ============================================================================
// 操作 DTO
// ============================================================================

// RegisterDTO 注册请求
type RegisterDTO struct {
	Username string
	Password string
	Email    string
	DpImage  string // 可选，base64 或 data URI
}

// LoginDTO 登录请求
type LoginDTO struct {
	Username string
	Password string
}

// UpdateProfileDTO 更新资料请求
//
// 指针字段为 nil 表示未提供，不修改对应字段。
type UpdateProfileDTO struct {
	UserID   string
	Username *string
	Bio      *string
	DpImage  *string
}

// UploadImageDTO 上传相册图片请求
type UploadImageDTO struct {
	UserID string
	Image  string // base64 或 data URI
}

// RemoveImageDTO 删除相册图片请求
type RemoveImageDTO struct {
	UserID  string
	ImageID string
}

// ============================================================================
// 响应 DTO
// ============================================================================

// AuthResultDTO 认证结果（注册/登录/更新后签发）
type AuthResultDTO struct {
	Token string
	ID    string
}

// UserSummaryDTO 用户列表项
type UserSummaryDTO struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Likes    int64   `json:"likes"`
	DpImage  *string `json:"dpImage"` // data URI，无头像时为 null
}

// ProfileImageDTO 相册图片项
type ProfileImageDTO struct {
	ID         string    `json:"id"`
	Image      string    `json:"image"` // data URI
	UploadedAt time.Time `json:"uploadedAt"`
}

// UserProfileDTO 用户完整资料
type UserProfileDTO struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	Bio           string            `json:"bio"`
	Likes         int64             `json:"likes"`
	DpImage       *string           `json:"dpImage"` // data URI，无头像时为 null
	ProfileImages []ProfileImageDTO `json:"profileImages"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
