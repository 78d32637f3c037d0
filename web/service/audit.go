package service

import (
	"fmt"
	"time"

	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/logger"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// AuditLogService records and queries the audit trail.
type AuditLogService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db, now: time.Now}
}

// AuditEntry is one state-changing request.
type AuditEntry struct {
	RequestID string
	UserID    int
	Email     string
	Action    string // HTTP method or a named action such as LOGIN
	Resource  string // first path segment after /api
	Path      string
	Status    int
	IP        string
	UserAgent string
	Details   map[string]any
}

// LogAction stores e. Details that fail to encode are dropped, not fatal.
func (s *AuditLogService) LogAction(e AuditEntry) error {
	detailsJSON := ""
	if len(e.Details) > 0 {
		jsonData, err := json.Marshal(e.Details)
		if err != nil {
			logger.Warning("Failed to marshal audit log details:", err)
		} else {
			detailsJSON = string(jsonData)
		}
	}

	auditLog := model.AuditLog{
		RequestID: e.RequestID,
		UserID:    e.UserID,
		Email:     e.Email,
		Action:    e.Action,
		Resource:  e.Resource,
		Path:      e.Path,
		Status:    e.Status,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		Details:   detailsJSON,
		Timestamp: s.now().Unix(),
	}
	if err := s.db.Create(&auditLog).Error; err != nil {
		logger.Warningf("Failed to create audit log: user=%d, action=%s, path=%s, error=%v", e.UserID, e.Action, e.Path, err)
		return err
	}
	return nil
}

// GetAuditLogs returns the newest entries, optionally for one user and action.
func (s *AuditLogService) GetAuditLogs(userID, limit, offset int, action string) ([]model.AuditLog, int64, error) {
	query := s.db.Model(&model.AuditLog{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]model.AuditLog, 0)
	if err := query.Order("timestamp DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// CleanOldLogs removes entries older than days.
func (s *AuditLogService) CleanOldLogs(days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be greater than 0")
	}
	cutoff := s.now().AddDate(0, 0, -days).Unix()

	result := s.db.Where("timestamp < ?", cutoff).Delete(&model.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	logger.Infof("Cleaned %d old audit logs (older than %d days)", result.RowsAffected, days)
	return result.RowsAffected, nil
}
