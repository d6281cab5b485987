package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"userhub/config"
	log "userhub/pkg/logger"
)

const (
	// UserCollection 用户集合名称
	UserCollection = "users"
)

// Connect 建立 MongoDB 连接
func Connect(cfg *config.Config) (*mongo.Client, error) {
	log.Info("开始初始化MongoDB连接",
		zap.String("database", cfg.Mongo.Database),
		zap.Uint64("max_pool_size", cfg.Mongo.MaxPoolSize),
	)

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetConnectTimeout(cfg.Mongo.GetConnectTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.GetConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error("连接MongoDB失败", zap.Error(err))
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 测试连接
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("MongoDB连接测试失败", zap.Error(err))
		return nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	log.Info("MongoDB连接成功", zap.String("database", cfg.Mongo.Database))
	return client, nil
}

// Database 获取业务数据库实例
func Database(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.Mongo.Database)
}

// EnsureIndexes 创建必要的索引
//
// username 的唯一性由唯一索引保证，并发插入同名用户时
// 第二个插入会收到 DuplicateKey 错误。
// email 的唯一性由业务层查询检查，不建索引。
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Error("创建username唯一索引失败", zap.Error(err))
		return fmt.Errorf("创建username唯一索引失败: %w", err)
	}

	log.Info("索引创建完成", zap.String("collection", UserCollection))
	return nil
}
