package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/supplier_kpi/models"
	"github.com/BerniceZTT/supplier_kpi/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	ApiOperationLogsCollection = "apiOperationLogs"
)

// ErrMongoDisabled 未配置MongoDB
var ErrMongoDisabled = errors.New("mongodb not configured")

var (
	client *mongo.Client
	db     *mongo.Database
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(uri, dbName string) error {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 创建客户端
	c, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("ping MongoDB失败: %w", err)
	}

	client = c
	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	return nil
}

// Enabled 是否已连接MongoDB
func Enabled() bool {
	return db != nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB() {
	if client == nil {
		return
	}
	if err := client.Disconnect(context.Background()); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	client, db = nil, nil
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// ExecuteDbOperation 执行数据库操作，提供错误处理和重试机制
func ExecuteDbOperation(operation func() error, retries int) error {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		// 如果是不可重试的错误，立即返回
		if !isRetryableError(err) {
			break
		}

		// 最后一次失败不需要等待
		if i < retries-1 {
			time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
		}
	}

	return lastErr
}

// MongoDB可重试错误代码
var retryableCodes = map[int32]bool{
	6:     true, // HostUnreachable
	7:     true, // HostNotFound
	89:    true, // NetworkTimeout
	91:    true, // ShutdownInProgress
	189:   true, // PrimarySteppedDown
	10107: true, // NotMaster
	13436: true, // NotMasterNoSlaveOk
	11600: true, // InterruptedAtShutdown
	11602: true, // InterruptedDueToReplStateChange
	10058: true, // ConnectionReset
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}

	// 检查常见网络错误
	return isNetworkError(err)
}

// isNetworkError 检查是否是网络错误
func isNetworkError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"timeout",
		"context deadline exceeded",
		"server selection error",
	}

	for _, ne := range networkErrors {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}

	return false
}

// InitializeCollections 初始化数据库集合与索引
func InitializeCollections(ctx context.Context) error {
	if !Enabled() {
		return ErrMongoDisabled
	}

	names, err := db.ListCollectionNames(ctx, bson.M{"name": ApiOperationLogsCollection})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	if len(names) == 0 {
		if err := db.CreateCollection(ctx, ApiOperationLogsCollection); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", ApiOperationLogsCollection).Msg("创建集合成功")
	}

	_, err = db.Collection(ApiOperationLogsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "operationTime", Value: -1}}},
		{Keys: bson.D{{Key: "requestId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}
	return nil
}

// SaveOperationLog 保存操作日志
func SaveOperationLog(ctx context.Context, log *models.OperationLog) error {
	if !Enabled() {
		return ErrMongoDisabled
	}
	return ExecuteDbOperation(func() error {
		_, err := db.Collection(ApiOperationLogsCollection).InsertOne(ctx, log)
		return err
	}, 3)
}

// DeleteOperationLogsBefore 删除早于 cutoff 的操作日志
func DeleteOperationLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if !Enabled() {
		return 0, ErrMongoDisabled
	}
	var deleted int64
	err := ExecuteDbOperation(func() error {
		result, err := db.Collection(ApiOperationLogsCollection).DeleteMany(ctx, bson.M{
			"operationTime": bson.M{"$lt": cutoff},
		})
		if err != nil {
			return err
		}
		deleted = result.DeletedCount
		return nil
	}, 3)
	return deleted, err
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus(ctx context.Context) (map[string]interface{}, error) {
	if !Enabled() {
		return nil, ErrMongoDisabled
	}

	coll := db.Collection(ApiOperationLogsCollection)
	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.Logger.Error().Err(err).Str("collection", ApiOperationLogsCollection).Msg("获取集合计数失败")
		return nil, err
	}

	status := map[string]interface{}{"count": count}

	// 最近一次上传
	if count > 0 {
		var latest models.OperationLog
		opts := options.FindOne().SetSort(bson.D{{Key: "operationTime", Value: -1}})
		if err := coll.FindOne(ctx, bson.M{}, opts).Decode(&latest); err == nil {
			status["latestOperationTime"] = latest.OperationTime
		}
	}

	return map[string]interface{}{
		"database":                 db.Name(),
		ApiOperationLogsCollection: status,
	}, nil
}
