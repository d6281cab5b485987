package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"userhub/internal/model"
	"userhub/pkg/db"
)

// ============================================================================
// 存储层错误定义
// ============================================================================

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// ============================================================================
// UserRepository 接口
// ============================================================================

// UserUpdate 部分更新字段
//
// 指针为 nil 表示不更新对应字段。
type UserUpdate struct {
	Username *string
	Bio      *string
	DpImage  *model.ImageRecord
}

// Set 构造 $set 更新文档（updatedAt 由存储层维护）
func (u *UserUpdate) Set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Username != nil {
		set["username"] = *u.Username
	}
	if u.Bio != nil {
		set["bio"] = *u.Bio
	}
	if u.DpImage != nil {
		set["dpImage"] = u.DpImage
	}
	return set
}

// UserRepository 用户仓储接口
//
// 所有操作都是单文档原子操作，不依赖多文档事务。
type UserRepository interface {
	// FindAll 查询全部用户（全量扫描，无分页）
	FindAll(ctx context.Context) ([]*model.User, error)

	// FindByID 根据ID查询用户
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername 根据用户名查询用户（用于登录和唯一性检查）
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail 根据邮箱查询用户（用于唯一性检查）
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create 创建用户，返回带ID的文档；并发撞到唯一索引时返回 ErrDuplicateUsername
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// Update 部分更新用户字段，返回更新后的文档
	Update(ctx context.Context, id string, update *UserUpdate) (*model.User, error)

	// IncrementLikes 点赞计数+1（数据库侧 $inc，并发不丢更新），返回更新后的文档
	IncrementLikes(ctx context.Context, id string) (*model.User, error)

	// AppendProfileImage 追加相册图片；图片ID由存储层分配并回填
	AppendProfileImage(ctx context.Context, id string, image *model.ImageRecord) error

	// RemoveProfileImage 按图片ID定向删除相册图片
	RemoveProfileImage(ctx context.Context, id string, imageID string) error
}

// ============================================================================
// mongoUserRepository 实现
// ============================================================================

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: database.Collection(db.UserCollection)}
}

// parseObjectID 解析十六进制ID；非法ID等同于用户不存在
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrUserNotFound
	}
	return oid, nil
}

// FindAll 查询全部用户
func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindByID 根据ID查询用户
func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByUsername 根据用户名查询用户
func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByEmail 根据邮箱查询用户
func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// findOne 按条件查询单个用户
func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Create 创建用户
func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ProfileImages == nil {
		user.ProfileImages = []model.ImageRecord{}
	}

	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

// Update 部分更新用户字段
func (r *mongoUserRepository) Update(ctx context.Context, id string, update *UserUpdate) (*model.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": update.Set(time.Now())},
		opts,
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// IncrementLikes 点赞计数+1
func (r *mongoUserRepository) IncrementLikes(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"likes": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to increment likes: %w", err)
	}
	return &user, nil
}

// AppendProfileImage 追加相册图片
func (r *mongoUserRepository) AppendProfileImage(ctx context.Context, id string, image *model.ImageRecord) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	if image.UploadedAt.IsZero() {
		image.UploadedAt = time.Now()
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"profileImages": image},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to append profile image: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveProfileImage 按图片ID定向删除相册图片
//
// 过滤条件同时匹配用户和图片，保证 $pull 本身是单文档原子操作；
// 未匹配时再查一次用户，区分“用户不存在”和“图片不存在”。
func (r *mongoUserRepository) RemoveProfileImage(ctx context.Context, id string, imageID string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "profileImages.id": imageID},
		bson.M{
			"$pull": bson.M{"profileImages": bson.M{"id": imageID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove profile image: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrImageNotFound
	}
	return nil
}
