package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"userhub/internal/dto"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/pkg/token"

	log "userhub/pkg/logger"
)

// ============================================================================
// 业务错误定义
// ============================================================================

// 错误文案直接作为API响应消息返回给客户端
var (
	ErrUsernameTaken     = errors.New("Username already exists")
	ErrEmailTaken        = errors.New("Email already exists")
	ErrUsernameNotFound  = errors.New("Username not found")
	ErrIncorrectPassword = errors.New("Incorrect password")
	ErrUserNotFound      = errors.New("User not found")
	ErrImageNotFound     = errors.New("Image not found")
	ErrNoImage           = errors.New("No image provided")
)

// ValidationError 注册输入校验错误（字段名→错误信息）
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// ============================================================================
// UserService 接口
// ============================================================================

type UserService interface {
	// Register 用户注册，成功后签发Token
	Register(ctx context.Context, registerDTO *dto.RegisterDTO) (*dto.AuthResultDTO, error)

	// Login 用户登录，成功后签发Token
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.AuthResultDTO, error)

	// ListUsers 用户列表（含头像 data URI）
	ListUsers(ctx context.Context) ([]*dto.UserSummaryDTO, error)

	// GetProfile 用户完整资料（含相册 data URI）
	GetProfile(ctx context.Context, id string) (*dto.UserProfileDTO, error)

	// UpdateProfile 更新资料（用户名/签名/头像），成功后重新签发Token
	UpdateProfile(ctx context.Context, updateDTO *dto.UpdateProfileDTO) (*dto.AuthResultDTO, error)

	// LikeUser 点赞计数+1，返回最新计数
	LikeUser(ctx context.Context, id string) (int64, error)

	// UploadImage 上传相册图片，返回存储层分配的图片ID
	UploadImage(ctx context.Context, uploadDTO *dto.UploadImageDTO) (string, error)

	// RemoveImage 按图片ID删除相册图片
	RemoveImage(ctx context.Context, removeDTO *dto.RemoveImageDTO) error
}

// ============================================================================
// userService 实现
// ============================================================================

type userService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
}

// NewUserService 创建UserService实例
func NewUserService(userRepo repository.UserRepository, issuer *token.Issuer) UserService {
	return &userService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// ============================================================================
// Register 注册
// ============================================================================

func (s *userService) Register(ctx context.Context, registerDTO *dto.RegisterDTO) (*dto.AuthResultDTO, error) {
	// 1. 输入校验（纯计算，不触库）
	if fieldErrors, ok := registerDTO.Validate(); !ok {
		log.Warn("注册参数校验失败",
			zap.String("username", registerDTO.Username),
			zap.Any("errors", fieldErrors))
		return nil, &ValidationError{Fields: fieldErrors}
	}

	// 2. 用户名唯一性检查
	if _, err := s.userRepo.FindByUsername(ctx, registerDTO.Username); err == nil {
		log.Warn("用户名已存在", zap.String("username", registerDTO.Username))
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		log.Error("查询用户名失败", zap.Error(err), zap.String("username", registerDTO.Username))
		return nil, fmt.Errorf("查询用户名失败: %w", err)
	}

	// 3. 邮箱唯一性检查（业务层检查，不依赖索引）
	if _, err := s.userRepo.FindByEmail(ctx, registerDTO.Email); err == nil {
		log.Warn("邮箱已存在", zap.String("email", registerDTO.Email))
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		log.Error("查询邮箱失败", zap.Error(err), zap.String("email", registerDTO.Email))
		return nil, fmt.Errorf("查询邮箱失败: %w", err)
	}

	// 4. 密码哈希（只落库bcrypt哈希）
	hash, err := bcrypt.GenerateFromPassword([]byte(registerDTO.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("密码哈希失败", zap.Error(err))
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	// 5. 解码可选头像
	dpImage, err := decodeOptionalImage(registerDTO.DpImage)
	if err != nil {
		log.Warn("头像解码失败", zap.Error(err), zap.String("username", registerDTO.Username))
		return nil, &ValidationError{Fields: map[string]string{"dpImage": "Invalid image data"}}
	}

	// 6. 入库（并发撞到唯一索引时同样按用户名冲突处理）
	user := &model.User{
		Username: registerDTO.Username,
		Password: string(hash),
		Email:    registerDTO.Email,
		Bio:      "",
		Likes:    0,
		DpImage:  dpImage,
	}
	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			log.Warn("并发注册撞到用户名唯一索引", zap.String("username", registerDTO.Username))
			return nil, ErrUsernameTaken
		}
		log.Error("创建用户失败", zap.Error(err), zap.String("username", registerDTO.Username))
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	// 7. 签发Token
	signed, err := s.issuer.Issue(created.ID.Hex(), created.Username)
	if err != nil {
		log.Error("签发Token失败", zap.Error(err), zap.String("user_id", created.ID.Hex()))
		return nil, err
	}

	log.Info("用户注册成功",
		zap.String("username", created.Username),
		zap.String("user_id", created.ID.Hex()))

	return &dto.AuthResultDTO{Token: signed, ID: created.ID.Hex()}, nil
}

// ============================================================================
// Login 登录
// ============================================================================

func (s *userService) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.AuthResultDTO, error) {
	// 1. 查询用户
	user, err := s.userRepo.FindByUsername(ctx, loginDTO.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("登录用户不存在", zap.String("username", loginDTO.Username))
			return nil, ErrUsernameNotFound
		}
		log.Error("查询用户失败", zap.Error(err), zap.String("username", loginDTO.Username))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 2. 校验密码（bcrypt常数时间比较，绝不做明文相等比较）
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginDTO.Password)); err != nil {
		log.Warn("密码错误", zap.String("username", loginDTO.Username))
		return nil, ErrIncorrectPassword
	}

	// 3. 签发Token
	signed, err := s.issuer.Issue(user.ID.Hex(), user.Username)
	if err != nil {
		log.Error("签发Token失败", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, err
	}

	log.Info("用户登录成功",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.Hex()))

	return &dto.AuthResultDTO{Token: signed, ID: user.ID.Hex()}, nil
}

// ============================================================================
// ListUsers / GetProfile 查询
// ============================================================================

func (s *userService) ListUsers(ctx context.Context) ([]*dto.UserSummaryDTO, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		log.Error("查询用户列表失败", zap.Error(err))
		return nil, fmt.Errorf("查询用户列表失败: %w", err)
	}

	summaries := make([]*dto.UserSummaryDTO, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, dto.ToSummary(user))
	}
	return summaries, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("用户不存在", zap.String("user_id", id))
			return nil, ErrUserNotFound
		}
		log.Error("查询用户失败", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return dto.ToProfile(user), nil
}

// ============================================================================
// UpdateProfile 更新资料
// ============================================================================

func (s *userService) UpdateProfile(ctx context.Context, updateDTO *dto.UpdateProfileDTO) (*dto.AuthResultDTO, error) {
	// 1. 确认用户存在
	current, err := s.userRepo.FindByID(ctx, updateDTO.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("更新目标用户不存在", zap.String("user_id", updateDTO.UserID))
			return nil, ErrUserNotFound
		}
		log.Error("查询用户失败", zap.Error(err), zap.String("user_id", updateDTO.UserID))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	// 2. 用户名变更时检查是否被其他用户占用
	if updateDTO.Username != nil && *updateDTO.Username != current.Username {
		existing, err := s.userRepo.FindByUsername(ctx, *updateDTO.Username)
		if err == nil && existing.ID != current.ID {
			log.Warn("目标用户名已被占用", zap.String("username", *updateDTO.Username))
			return nil, ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			log.Error("查询用户名失败", zap.Error(err), zap.String("username", *updateDTO.Username))
			return nil, fmt.Errorf("查询用户名失败: %w", err)
		}
	}

	// 3. 组装更新字段
	update := &repository.UserUpdate{
		Username: updateDTO.Username,
		Bio:      updateDTO.Bio,
	}
	if updateDTO.DpImage != nil {
		dpImage, err := decodeOptionalImage(*updateDTO.DpImage)
		if err != nil {
			log.Warn("头像解码失败", zap.Error(err), zap.String("user_id", updateDTO.UserID))
			return nil, &ValidationError{Fields: map[string]string{"dpImage": "Invalid image data"}}
		}
		update.DpImage = dpImage
	}

	// 4. 持久化（并发改名撞到唯一索引时按用户名冲突处理）
	updated, err := s.userRepo.Update(ctx, updateDTO.UserID, update)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		log.Error("更新用户失败", zap.Error(err), zap.String("user_id", updateDTO.UserID))
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}

	// 5. 重新签发Token（用户名是Token载荷的一部分，可能已变更）
	signed, err := s.issuer.Issue(updated.ID.Hex(), updated.Username)
	if err != nil {
		log.Error("签发Token失败", zap.Error(err), zap.String("user_id", updated.ID.Hex()))
		return nil, err
	}

	log.Info("用户资料更新成功",
		zap.String("username", updated.Username),
		zap.String("user_id", updated.ID.Hex()))

	return &dto.AuthResultDTO{Token: signed, ID: updated.ID.Hex()}, nil
}

// ============================================================================
// LikeUser 点赞
// ============================================================================

func (s *userService) LikeUser(ctx context.Context, id string) (int64, error) {
	// 点赞计数由存储层 $inc 原子完成，并发点赞不丢更新
	user, err := s.userRepo.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("点赞目标用户不存在", zap.String("user_id", id))
			return 0, ErrUserNotFound
		}
		log.Error("点赞失败", zap.Error(err), zap.String("user_id", id))
		return 0, fmt.Errorf("点赞失败: %w", err)
	}

	log.Debug("点赞成功", zap.String("user_id", id), zap.Int64("likes", user.Likes))
	return user.Likes, nil
}

// ============================================================================
// UploadImage / RemoveImage 相册管理
// ============================================================================

func (s *userService) UploadImage(ctx context.Context, uploadDTO *dto.UploadImageDTO) (string, error) {
	// 1. 图片必填
	if uploadDTO.Image == "" {
		return "", ErrNoImage
	}

	// 2. 解码 data URI（裸base64按jpeg处理）
	data, contentType, err := dto.DecodeDataURI(uploadDTO.Image)
	if err != nil {
		log.Warn("图片解码失败", zap.Error(err), zap.String("user_id", uploadDTO.UserID))
		return "", ErrNoImage
	}

	// 3. 追加到相册（图片ID由存储层分配）
	image := &model.ImageRecord{Data: data, ContentType: contentType}
	if err := s.userRepo.AppendProfileImage(ctx, uploadDTO.UserID, image); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Warn("上传目标用户不存在", zap.String("user_id", uploadDTO.UserID))
			return "", ErrUserNotFound
		}
		log.Error("上传图片失败", zap.Error(err), zap.String("user_id", uploadDTO.UserID))
		return "", fmt.Errorf("上传图片失败: %w", err)
	}

	log.Info("图片上传成功",
		zap.String("user_id", uploadDTO.UserID),
		zap.String("image_id", image.ID),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))

	return image.ID, nil
}

func (s *userService) RemoveImage(ctx context.Context, removeDTO *dto.RemoveImageDTO) error {
	err := s.userRepo.RemoveProfileImage(ctx, removeDTO.UserID, removeDTO.ImageID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Warn("删除图片的目标用户不存在", zap.String("user_id", removeDTO.UserID))
			return ErrUserNotFound
		case errors.Is(err, repository.ErrImageNotFound):
			log.Warn("图片不存在",
				zap.String("user_id", removeDTO.UserID),
				zap.String("image_id", removeDTO.ImageID))
			return ErrImageNotFound
		default:
			log.Error("删除图片失败", zap.Error(err), zap.String("user_id", removeDTO.UserID))
			return fmt.Errorf("删除图片失败: %w", err)
		}
	}

	log.Info("图片删除成功",
		zap.String("user_id", removeDTO.UserID),
		zap.String("image_id", removeDTO.ImageID))
	return nil
}

// decodeOptionalImage 解码可选图片载荷，空串表示未提供
func decodeOptionalImage(payload string) (*model.ImageRecord, error) {
	if payload == "" {
		return nil, nil
	}
	data, contentType, err := dto.DecodeDataURI(payload)
	if err != nil {
		return nil, err
	}
	return &model.ImageRecord{Data: data, ContentType: contentType}, nil
}
