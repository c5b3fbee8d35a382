package ps

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func CPUStatus() (CPU, error) {
	list, err := cpu.Percent(time.Millisecond*50, false)
	if err != nil {
		return CPU{}, err
	}
	if len(list) == 0 {
		return CPU{}, fmt.Errorf("no cpu samples")
	}

	return CPU{
		Percent: list[0],
	}, nil
}

func MemoryStatus() (Memory, error) {
	memory, err := mem.VirtualMemory()
	if err != nil {
		return Memory{}, err
	}

	return Memory{
		Total:       memory.Total,
		Used:        memory.Used,
		UsedPercent: memory.UsedPercent,
	}, nil
}

// Snapshot collects what is cheap to read about the host. Fields that fail
// to load are left zero; the first error is returned alongside.
func Snapshot() (Host, error) {
	var (
		h        Host
		firstErr error
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	info, err := host.Info()
	keep(err)
	if info != nil {
		h.Hostname = info.Hostname
		h.Uptime = time.Duration(info.Uptime) * time.Second
	}
	h.CPU, err = CPUStatus()
	keep(err)
	h.Memory, err = MemoryStatus()
	keep(err)

	return h, firstErr
}

type CPU struct {
	Percent float64 `json:"percent"`
}

type Memory struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

type Host struct {
	Hostname string        `json:"hostname"`
	Uptime   time.Duration `json:"uptime"`
	CPU      CPU           `json:"cpu"`
	Memory   Memory        `json:"memory"`
}

func (h Host) String() string {
	return fmt.Sprintf("host %s, up %s, cpu %.1f%%, memory %s / %s",
		h.Hostname,
		h.Uptime.Truncate(time.Second),
		h.CPU.Percent,
		humanize.IBytes(h.Memory.Used),
		humanize.IBytes(h.Memory.Total),
	)
}
