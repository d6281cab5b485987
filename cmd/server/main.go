package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"userhub/config"
	"userhub/pkg/container"
	"userhub/pkg/db"

	log "userhub/pkg/logger"
)

var (
	configPath = flag.String("config", "config/config.yaml", "配置文件路径")
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 1. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 2. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("加载配置失败: " + err.Error())
	}

	// 3. 初始化日志
	logConfig := &log.Config{
		Level:    cfg.Log.Level,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}
	if err := log.Init(logConfig); err != nil {
		panic("初始化日志失败: " + err.Error())
	}
	defer log.Sync()

	log.Info("Server 启动中...")
	log.Info("配置加载成功", zap.String("config_path", *configPath))

	gin.SetMode(cfg.Server.Mode)

	// 4. 初始化依赖注入容器（Mongo连接、仓储、Token签发器、Handler、路由）
	// 签名密钥缺失会在这里以启动错误暴露，而不是等到第一个请求
	if err := container.Init(cfg); err != nil {
		log.Fatal("初始化容器失败", zap.Error(err))
	}

	// 5. 创建索引
	if err := container.Invoke(func(database *mongo.Database) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return db.EnsureIndexes(ctx, database)
	}); err != nil {
		log.Fatal("创建索引失败", zap.Error(err))
	}

	// 6. 启动 HTTP Server
	if err := container.Invoke(run); err != nil {
		log.Fatal("启动失败", zap.Error(err))
	}
}

// run 启动 HTTP Server 并等待退出信号
func run(r *gin.Engine, cfg *config.Config, client *mongo.Client) error {
	addr := cfg.Server.GetAddr()
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info("HTTP Server 启动成功",
			zap.String("addr", addr),
			zap.String("mode", cfg.Server.Mode))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("启动 HTTP Server 失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("收到退出信号，开始优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("关闭 HTTP Server 失败", zap.Error(err))
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Error("断开 MongoDB 连接失败", zap.Error(err))
	}

	log.Info("Server 已关闭")
	return nil
}
