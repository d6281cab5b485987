package container

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/dig"

	"userhub/config"
	"userhub/internal/handler"
	"userhub/internal/repository"
	"userhub/internal/router"
	"userhub/internal/service"
	"userhub/pkg/db"
	"userhub/pkg/token"
)

// Container 全局依赖注入容器
var Container *dig.Container

// Init 初始化依赖注入容器
func Init(cfg *config.Config) error {
	Container = dig.New()

	providers := []interface{}{
		func() *config.Config { return cfg },
		func(cfg *config.Config) (*mongo.Client, error) { return db.Connect(cfg) },
		func(client *mongo.Client, cfg *config.Config) *mongo.Database { return db.Database(client, cfg) },
		func(database *mongo.Database) repository.UserRepository { return repository.NewUserRepository(database) },
		func(cfg *config.Config) (*token.Issuer, error) { return token.NewIssuer(cfg) },
		func(repo repository.UserRepository, issuer *token.Issuer) service.UserService {
			return service.NewUserService(repo, issuer)
		},
		func(svc service.UserService) *handler.UserHandler { return handler.NewUserHandler(svc) },
		func(h *handler.UserHandler) *gin.Engine { return router.SetupRouter(h) },
	}

	for _, provider := range providers {
		if err := Container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

// Invoke 调用函数，自动注入依赖
func Invoke(function interface{}) error {
	return Container.Invoke(function)
}
