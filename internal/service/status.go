package service

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/platevision/platevision-go/internal/model"
)

// StatusService samples host resource usage for the dashboard widgets.
// Every probe is best-effort: on any failure the individual metric degrades
// to 0 rather than failing the whole sample.
type StatusService struct {
	cpuSampleGap time.Duration
}

// NewStatusService creates a new StatusService.
func NewStatusService() *StatusService {
	return &StatusService{cpuSampleGap: time.Second}
}

// Sample collects one system status snapshot.
func (s *StatusService) Sample(ctx context.Context) model.SystemStatus {
	return model.SystemStatus{
		CPU:       s.cpuUsage(ctx),
		Memory:    memoryUsage(),
		Disk:      diskUsage(ctx),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Platform:  runtime.GOOS,
		Uptime:    uptime(),
	}
}

// cpuUsage computes CPU busy percentage from two /proc/stat samples taken
// cpuSampleGap apart. Non-Linux hosts report 0.
func (s *StatusService) cpuUsage(ctx context.Context) int {
	idle1, total1, ok := readCPUStat()
	if !ok {
		return 0
	}

	timer := time.NewTimer(s.cpuSampleGap)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return 0
	}

	idle2, total2, ok := readCPUStat()
	if !ok || total2 <= total1 {
		return 0
	}

	totalDiff := float64(total2 - total1)
	idleDiff := float64(idle2 - idle1)
	return clampPercent(100 * (1 - idleDiff/totalDiff))
}

func readCPUStat() (idle, total uint64, ok bool) {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, false
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, false
	}

	for i, field := range fields[1:] {
		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		total += v
		if i == 3 { // the idle column
			idle = v
		}
	}
	return idle, total, true
}

func memoryUsage() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	var total, available uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = v
		case "MemAvailable:":
			available = v
		}
	}
	if total == 0 || available > total {
		return 0
	}
	return clampPercent(100 * float64(total-available) / float64(total))
}

// diskUsage shells out to df for the root filesystem usage percentage.
func diskUsage(ctx context.Context) int {
	out, err := exec.CommandContext(ctx, "df", "--output=pcent", "/").Output()
	if err != nil {
		return 0
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0
	}
	pcent := strings.TrimSuffix(strings.TrimSpace(lines[len(lines)-1]), "%")
	v, err := strconv.Atoi(pcent)
	if err != nil {
		return 0
	}
	return clampPercent(float64(v))
}

func uptime() int64 {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int64(seconds)
}

func clampPercent(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}
