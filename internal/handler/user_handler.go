package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"userhub/internal/dto"
	"userhub/internal/service"

	log "userhub/pkg/logger"
)

const (
	// RequestTimeout 单次请求的数据库操作超时
	RequestTimeout = 5 * time.Second
)

// ============================================================================
// Handler 结构体
// ============================================================================

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ============================================================================
// 请求结构体
// ============================================================================

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	DpImage  string `json:"dpImage"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	DpImage  *string `json:"dpImage"`
}

type UploadImageRequest struct {
	UserID string `json:"userId"`
	Image  string `json:"image"`
}

type RemoveImageRequest struct {
	UserID string `json:"userId"`
}

// ============================================================================
// Handler 方法
// ============================================================================

// ListUsers 用户列表
// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		log.Error("查询用户列表失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser 用户详情
// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.userService.GetProfile(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		log.Error("查询用户失败", zap.Error(err), zap.String("user_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Register 注册
// POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userService.Register(ctx, &dto.RegisterDTO{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		DpImage:  req.DpImage,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, validationErr.Fields)
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"username": service.ErrUsernameTaken.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"email": service.ErrEmailTaken.Error()})
		default:
			log.Error("注册失败", zap.Error(err), zap.String("username", req.Username))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during registration"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"id":      result.ID,
	})
}

// Login 登录
// POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userService.Login(ctx, &dto.LoginDTO{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameNotFound), errors.Is(err, service.ErrIncorrectPassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			log.Error("登录失败", zap.Error(err), zap.String("username", req.Username))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An error occurred during login"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"id":      result.ID,
	})
}

// UpdateProfile 更新资料
// PUT /users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userService.UpdateProfile(ctx, &dto.UpdateProfileDTO{
		UserID:   c.Param("id"),
		Username: req.Username,
		Bio:      req.Bio,
		DpImage:  req.DpImage,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"username": service.ErrUsernameTaken.Error()})
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, validationErr.Fields)
		default:
			log.Error("更新用户失败", zap.Error(err), zap.String("user_id", c.Param("id")))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during update"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"token":   result.Token,
		"id":      result.ID,
	})
}

// LikeUser 点赞
// PATCH /users/:id
func (h *UserHandler) LikeUser(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	likes, err := h.userService.LikeUser(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		log.Error("点赞失败", zap.Error(err), zap.String("user_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User liked successfully",
		"likes":   likes,
	})
}

// UploadImage 上传相册图片
// POST /users/image-upload
func (h *UserHandler) UploadImage(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	imageID, err := h.userService.UploadImage(ctx, &dto.UploadImageDTO{
		UserID: req.UserID,
		Image:  req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrNoImage.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		default:
			log.Error("上传图片失败", zap.Error(err), zap.String("user_id", req.UserID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during image upload"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"imageId": imageID,
	})
}

// RemoveImage 删除相册图片
// DELETE /users/image/:imageId
func (h *UserHandler) RemoveImage(c *gin.Context) {
	var req RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.userService.RemoveImage(ctx, &dto.RemoveImageDTO{
		UserID:  req.UserID,
		ImageID: c.Param("imageId"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrImageNotFound.Error()})
		default:
			log.Error("删除图片失败", zap.Error(err), zap.String("user_id", req.UserID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during image deletion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
	})
}

// ============================================================================
// 工具函数
// ============================================================================

// requestContext 派生带超时的请求上下文
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}
