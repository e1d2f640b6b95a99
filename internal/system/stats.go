package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of this process' resource usage
type Stats struct {
	RSSBytes   uint64
	CPUSeconds float64
	Threads    int32
}

// ProcessStats samples the current process through gopsutil
func ProcessStats() (Stats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Stats{}, err
	}

	var s Stats

	mem, err := p.MemoryInfo()
	if err != nil {
		return Stats{}, err
	}
	s.RSSBytes = mem.RSS

	times, err := p.Times()
	if err != nil {
		return Stats{}, err
	}
	s.CPUSeconds = times.User + times.System

	if n, err := p.NumThreads(); err == nil {
		s.Threads = n
	}

	return s, nil
}
