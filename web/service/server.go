package service

import (
	"time"

	"gacha-system/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime uint64    `json:"uptime"`
	Loads  []float64 `json:"loads"`
	Users  int64     `json:"users"`
}

// ServerService reports host health for the admin panel.
type ServerService struct {
	userService *UserService
}

func NewServerService(userService *UserService) *ServerService {
	return &ServerService{userService: userService}
}

func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{
		T: now,
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed: ", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	cpuCount, err := cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu count failed: ", err)
	} else {
		status.CpuCores = cpuCount
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed: ", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed: ", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	avgState, err := load.Avg()
	if err != nil {
		logger.Warning("get load avg failed: ", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	users, err := s.userService.UserCount()
	if err != nil {
		logger.Warning("count users failed: ", err)
	} else {
		status.Users = users
	}

	return status
}
