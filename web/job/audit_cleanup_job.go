package job

import (
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/web/service"

	"go.uber.org/atomic"
)

const defaultAuditRetentionDays = 90

// AuditCleanupJob deletes audit entries older than the configured retention.
type AuditCleanupJob struct {
	auditService   *service.AuditLogService
	settingService *service.SettingService

	running atomic.Bool
}

// NewAuditCleanupJob creates a new audit cleanup job
func NewAuditCleanupJob(auditService *service.AuditLogService, settingService *service.SettingService) *AuditCleanupJob {
	return &AuditCleanupJob{
		auditService:   auditService,
		settingService: settingService,
	}
}

// Run cleans up old audit logs. An overlapping run is skipped.
func (j *AuditCleanupJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug("Audit cleanup already running, skipped")
		return
	}
	defer j.running.Store(false)
	defer common.Recover("audit cleanup job")

	retentionDays, err := j.settingService.GetAuditRetentionDays()
	if err != nil || retentionDays <= 0 {
		retentionDays = defaultAuditRetentionDays
	}

	removed, err := j.auditService.CleanOldLogs(retentionDays)
	if err != nil {
		logger.Warning("Failed to clean old audit logs:", err)
		return
	}
	logger.Debugf("Audit cleanup removed %d entries (retention: %d days)", removed, retentionDays)
}
