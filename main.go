package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/supplier_kpi/config"
	"github.com/BerniceZTT/supplier_kpi/middleware"
	"github.com/BerniceZTT/supplier_kpi/repository"
	"github.com/BerniceZTT/supplier_kpi/routes"
	"github.com/BerniceZTT/supplier_kpi/service/retention"
	"github.com/BerniceZTT/supplier_kpi/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日志
	utils.InitLogger()

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("加载配置失败")
	}

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 操作日志库可选
	var saveLog middleware.SaveLogFunc
	if cfg.MongoEnabled() {
		if err := repository.InitMongoDB(cfg.MongoURI, cfg.MongoDB); err != nil {
			utils.Logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer repository.CloseMongoDB()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repository.InitializeCollections(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
		}
		cancel()
		saveLog = repository.SaveOperationLog

		// 每天凌晨3点清理过期操作日志
		if cfg.LogRetentionDays > 0 {
			purgeCtx, stopPurge := context.WithCancel(context.Background())
			defer stopPurge()
			retention.ScheduleDailyTaskAt(purgeCtx, 3, 0, 0, func(ctx context.Context) {
				_, _ = retention.PurgeOperationLogs(ctx, repository.DeleteOperationLogsBefore, cfg.LogRetentionDays, time.Now())
			})
		}
	} else {
		utils.Logger.Info().Msg("未配置MONGO_URI，操作日志不持久化")
	}

	router := routes.NewEngine(cfg, saveLog)

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("启动服务器失败")
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
}
