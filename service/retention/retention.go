// Package retention 定时清理过期的操作日志
package retention

import (
	"context"
	"time"

	"github.com/BerniceZTT/supplier_kpi/utils"
)

// PurgeFunc 删除早于 cutoff 的记录，返回删除条数
type PurgeFunc func(ctx context.Context, cutoff time.Time) (int64, error)

// NextRun 计算下一次在 hour:min:sec 执行的时间
func NextRun(now time.Time, hour, min, sec int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleDailyTaskAt 每天指定时间执行任务，ctx 取消后退出
func ScheduleDailyTaskAt(ctx context.Context, hour, min, sec int, task func(context.Context)) {
	go func() {
		for {
			timer := time.NewTimer(time.Until(NextRun(time.Now(), hour, min, sec)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				task(ctx)
			}
		}
	}()
}

// Cutoff 保留 days 天时的截止时间
func Cutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// PurgeOperationLogs 清理超过保留天数的操作日志
func PurgeOperationLogs(ctx context.Context, purge PurgeFunc, days int, now time.Time) (int64, error) {
	if purge == nil || days <= 0 {
		return 0, nil
	}

	cutoff := Cutoff(now, days)
	utils.Logger.Info().Time("cutoff", cutoff).Msg("开始清理过期操作日志")

	deleted, err := purge(ctx, cutoff)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("清理操作日志失败")
		return deleted, err
	}

	utils.LogInfo(map[string]interface{}{
		"deleted":       deleted,
		"retentionDays": days,
	}, "清理操作日志完成")
	return deleted, nil
}
