package service

import (
	"runtime"
	"time"

	"github.com/amoskalev/notepanel/config"
	"github.com/amoskalev/notepanel/database/model"
	"github.com/amoskalev/notepanel/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"gorm.io/gorm"
)

// Usage is a used/total pair in bytes.
type Usage struct {
	Current uint64 `json:"current"`
	Total   uint64 `json:"total"`
}

// HostStatus describes the machine the panel runs on.
type HostStatus struct {
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      Usage     `json:"mem"`
	Files    Usage     `json:"files"`
	Uptime   uint64    `json:"uptime"`
	Loads    []float64 `json:"loads"`
}

// PanelStatus counts what the panel stores.
type PanelStatus struct {
	Users          int64 `json:"users"`
	Notes          int64 `json:"notes"`
	PublishedNotes int64 `json:"publishedNotes"`
	ActiveSessions int64 `json:"activeSessions"`
	AuditEntries   int64 `json:"auditEntries"`
}

// AppStatus describes the panel process itself.
type AppStatus struct {
	Version    string `json:"version"`
	Goroutines int    `json:"goroutines"`
	Mem        uint64 `json:"mem"`
	Uptime     uint64 `json:"uptime"`
}

type Status struct {
	Host  HostStatus  `json:"host"`
	Panel PanelStatus `json:"panel"`
	App   AppStatus   `json:"app"`
}

// ServerService reports host metrics and store counters for the admin
// dashboard. A failing probe is logged and leaves its value zero.
type ServerService struct {
	db        *gorm.DB
	filesRoot string
	startedAt time.Time
	now       func() time.Time
}

func NewServerService(db *gorm.DB, filesRoot string) *ServerService {
	return &ServerService{db: db, filesRoot: filesRoot, startedAt: time.Now(), now: time.Now}
}

func (s *ServerService) GetStatus() *Status {
	status := &Status{
		Host:  s.hostStatus(),
		Panel: s.panelStatus(),
	}

	var rtm runtime.MemStats
	runtime.ReadMemStats(&rtm)
	status.App = AppStatus{
		Version:    config.GetVersion(),
		Goroutines: runtime.NumGoroutine(),
		Mem:        rtm.Sys,
		Uptime:     uint64(s.now().Sub(s.startedAt).Seconds()),
	}
	return status
}

func (s *ServerService) hostStatus() HostStatus {
	var st HostStatus

	// zero interval compares against the previous call
	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		st.Cpu = percents[0]
	}

	cores, err := cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu cores count failed:", err)
	}
	st.CpuCores = cores

	if upTime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		st.Uptime = upTime
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		st.Mem = Usage{Current: memInfo.Used, Total: memInfo.Total}
	}

	if diskInfo, err := disk.Usage(s.filesRoot); err != nil {
		logger.Warning("get files root usage failed:", err)
	} else {
		st.Files = Usage{Current: diskInfo.Used, Total: diskInfo.Total}
	}

	if avg, err := load.Avg(); err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		st.Loads = []float64{avg.Load1, avg.Load5, avg.Load15}
	}
	return st
}

func (s *ServerService) panelStatus() PanelStatus {
	var st PanelStatus
	count := func(name string, dst *int64, query *gorm.DB) {
		if err := query.Count(dst).Error; err != nil {
			logger.Warningf("count %s failed: %v", name, err)
		}
	}

	count("users", &st.Users, s.db.Model(&model.User{}))
	count("notes", &st.Notes, s.db.Model(&model.Note{}))
	count("published notes", &st.PublishedNotes, s.db.Model(&model.Note{}).Where("published = ?", true))
	count("sessions", &st.ActiveSessions, s.db.Model(&model.Session{}).Where("expires_at > ?", s.now().Unix()))
	count("audit entries", &st.AuditEntries, s.db.Model(&model.AuditLog{}))
	return st
}
