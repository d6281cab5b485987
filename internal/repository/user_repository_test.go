package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"userhub/internal/model"
)

// ============================================================================
// UserUpdate 测试
// ============================================================================

func TestUserUpdate_Set_AllFields(t *testing.T) {
	username := "ana"
	bio := "hello"
	image := &model.ImageRecord{ID: "dp-1", Data: []byte{0x01}, ContentType: "image/png"}
	now := time.Now()

	update := &UserUpdate{Username: &username, Bio: &bio, DpImage: image}
	set := update.Set(now)

	assert.Equal(t, "ana", set["username"])
	assert.Equal(t, "hello", set["bio"])
	assert.Equal(t, image, set["dpImage"])
	assert.Equal(t, now, set["updatedAt"])
}

func TestUserUpdate_Set_PartialFields(t *testing.T) {
	bio := "only bio"
	now := time.Now()

	update := &UserUpdate{Bio: &bio}
	set := update.Set(now)

	// 未提供的字段不出现在 $set 中
	assert.NotContains(t, set, "username")
	assert.NotContains(t, set, "dpImage")
	assert.Equal(t, "only bio", set["bio"])
	assert.Equal(t, now, set["updatedAt"])
}

func TestUserUpdate_Set_EmptyUpdateStillTouchesTimestamp(t *testing.T) {
	now := time.Now()

	update := &UserUpdate{}
	set := update.Set(now)

	assert.Len(t, set, 1)
	assert.Equal(t, now, set["updatedAt"])
}

// ============================================================================
// ID 解析测试
// ============================================================================

func TestParseObjectID_Invalid(t *testing.T) {
	// 非法十六进制ID等同于用户不存在
	_, err := parseObjectID("not-a-hex-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestParseObjectID_Valid(t *testing.T) {
	oid, err := parseObjectID("64f0c9e2a1b2c3d4e5f60718")
	assert.NoError(t, err)
	assert.Equal(t, "64f0c9e2a1b2c3d4e5f60718", oid.Hex())
}
