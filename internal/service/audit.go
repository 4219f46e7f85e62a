package service

import (
	"context"

	"itam-go/internal/apperr"
	"itam-go/internal/metrics"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"

	"github.com/sirupsen/logrus"
)

// AuditLogger 审计日志: 写 logrus 并持久化到 audit_logs
type AuditLogger struct {
	logger  *logrus.Logger
	repo    *repository.AuditRepository
	metrics *metrics.Metrics
}

// NewAuditLogger 创建审计日志记录器, repo 和 m 可以为 nil
func NewAuditLogger(logger *logrus.Logger, repo *repository.AuditRepository, m *metrics.Metrics) *AuditLogger {
	return &AuditLogger{logger: logger, repo: repo, metrics: m}
}

func (a *AuditLogger) entry(actor *policy.Actor, action policy.Action, resource policy.Resource, key string) *logrus.Entry {
	return a.logger.WithFields(logrus.Fields{
		"actor":       actor.Username,
		"actor_id":    actor.ID,
		"action":      string(action),
		"entity_type": string(resource),
		"entity_key":  key,
	})
}

// Success 记录成功的写操作
func (a *AuditLogger) Success(ctx context.Context, actor *policy.Actor, action policy.Action, resource policy.Resource, key, message string) {
	a.entry(actor, action, resource, key).Info(message)
	a.count(resource, action, "success")

	if a.repo == nil {
		return
	}
	record := &models.AuditLog{
		ActorID:    actor.ID,
		Action:     string(action),
		EntityType: string(resource),
		EntityKey:  key,
		Message:    message,
	}
	// 审计写入失败不影响业务结果
	if err := a.repo.Create(ctx, record); err != nil {
		a.logger.WithError(err).Error("写入审计日志失败")
	}
}

// Failure 记录失败的自定义动作
func (a *AuditLogger) Failure(actor *policy.Actor, action policy.Action, resource policy.Resource, key string, err error) {
	entry := a.entry(actor, action, resource, key).WithField("kind", string(apperr.KindOf(err)))
	if apperr.KindOf(err) == apperr.KindInternal {
		entry.WithError(err).Error(string(action) + " failed")
	} else {
		entry.Warn(string(action) + " failed: " + apperr.MessageOf(err))
	}
	a.count(resource, action, "failure")
}

func (a *AuditLogger) count(resource policy.Resource, action policy.Action, outcome string) {
	if a.metrics == nil {
		return
	}
	a.metrics.Actions.WithLabelValues(string(resource), string(action), outcome).Inc()
}

// AuditService 审计日志查询
type AuditService struct {
	gate *policy.Gate
	repo *repository.AuditRepository
}

// NewAuditService 创建审计日志查询服务
func NewAuditService(gate *policy.Gate, repo *repository.AuditRepository) *AuditService {
	return &AuditService{gate: gate, repo: repo}
}

// List 获取最近的审计日志, 仅管理员
func (s *AuditService) List(ctx context.Context, actor *policy.Actor, limit int) ([]models.AuditLog, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceAudit); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storeError(err, "")
	}
	return logs, nil
}
