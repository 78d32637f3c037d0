// Package job holds the periodic maintenance tasks run by the server's cron
// scheduler.
package job

import (
	"github.com/amoskalev/notepanel/logger"
	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/web/service"

	"go.uber.org/atomic"
)

// SessionCleanupJob removes expired sessions. Expired sessions are already
// rejected on lookup; this only keeps the table small.
type SessionCleanupJob struct {
	sessionService *service.SessionService

	running atomic.Bool
}

func NewSessionCleanupJob(sessionService *service.SessionService) *SessionCleanupJob {
	return &SessionCleanupJob{sessionService: sessionService}
}

func (j *SessionCleanupJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		return
	}
	defer j.running.Store(false)
	defer common.Recover("session cleanup job")

	removed, err := j.sessionService.RevokeExpired()
	if err != nil {
		logger.Warning("session cleanup failed:", err)
		return
	}
	if removed > 0 {
		logger.Infof("session cleanup removed %d expired sessions", removed)
	}
}
