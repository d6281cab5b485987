package dto

import (
	"userhub/internal/model"
)

// ============================================================================
// Model → DTO（二进制图片渲染为 data URI）
// ============================================================================

// ToSummary User文档 → 列表项DTO
func ToSummary(u *model.User) *UserSummaryDTO {
	return &UserSummaryDTO{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Likes:    u.Likes,
		DpImage:  encodeOptionalImage(u.DpImage),
	}
}

// ToProfile User文档 → 完整资料DTO
func ToProfile(u *model.User) *UserProfileDTO {
	images := make([]ProfileImageDTO, 0, len(u.ProfileImages))
	for _, img := range u.ProfileImages {
		images = append(images, ProfileImageDTO{
			ID:         img.ID,
			Image:      EncodeDataURI(img.Data, img.ContentType),
			UploadedAt: img.UploadedAt,
		})
	}

	return &UserProfileDTO{
		ID:            u.ID.Hex(),
		Username:      u.Username,
		Email:         u.Email,
		Bio:           u.Bio,
		Likes:         u.Likes,
		DpImage:       encodeOptionalImage(u.DpImage),
		ProfileImages: images,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// encodeOptionalImage 渲染可选头像，缺失时返回 nil（JSON里是 null）
func encodeOptionalImage(img *model.ImageRecord) *string {
	if img == nil || len(img.Data) == 0 {
		return nil
	}
	uri := EncodeDataURI(img.Data, img.ContentType)
	return &uri
}
