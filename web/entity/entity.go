// Package entity defines request bodies and setting aggregates used by the web layer.
package entity

import (
	"github.com/amoskalev/notepanel/util/common"

	"github.com/robfig/cron/v3"
)

// AllSetting is the runtime-tunable part of the panel, stored as key/value rows.
type AllSetting struct {
	AuditRetentionDays int    `json:"auditRetentionDays" form:"auditRetentionDays"` // Days audit entries are kept
	AuditPageSize      int    `json:"auditPageSize" form:"auditPageSize"`           // Entries returned by the audit endpoint
	SessionSweepSpec   string `json:"sessionSweepSpec" form:"sessionSweepSpec"`     // Cron spec for expired session cleanup
	AuditCleanupSpec   string `json:"auditCleanupSpec" form:"auditCleanupSpec"`     // Cron spec for audit retention
}

// CheckValid rejects values the jobs or handlers cannot run with.
func (s *AllSetting) CheckValid() error {
	if s.AuditRetentionDays <= 0 {
		return common.NewErrorf("audit retention must be positive, got %d", s.AuditRetentionDays)
	}
	if s.AuditPageSize <= 0 || s.AuditPageSize > 1000 {
		return common.NewErrorf("audit page size must be within 1..1000, got %d", s.AuditPageSize)
	}
	for _, spec := range []string{s.SessionSweepSpec, s.AuditCleanupSpec} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return common.NewErrorf("invalid cron spec <%v>: %v", spec, err)
		}
	}
	return nil
}

type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type UserForm struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// NoteForm is shared by create and update. Pointers tell "absent" from
// "empty" for the partial update.
type NoteForm struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

type UploadForm struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	ContentBase64 string `json:"content_base64"`
}

type FolderForm struct {
	Path string `json:"path"`
	Name string `json:"name"`
}
