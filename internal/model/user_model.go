package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRecord 图片子文档
//
// 二进制数据内嵌在用户文档中，随用户文档一起删除。
// ID 由存储层分配，在图片生命周期内保持稳定，用于定向删除。
type ImageRecord struct {
	ID          string    `bson:"id"`
	Data        []byte    `bson:"data"`
	ContentType string    `bson:"contentType"`
	UploadedAt  time.Time `bson:"uploadedAt"`
}

// User 用户文档
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Password      string             `bson:"password"` // bcrypt哈希，绝不存明文
	Email         string             `bson:"email"`
	Bio           string             `bson:"bio"`
	Likes         int64              `bson:"likes"`
	DpImage       *ImageRecord       `bson:"dpImage,omitempty"`
	ProfileImages []ImageRecord      `bson:"profileImages"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}
