package workers

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitorWorker periodically logs process-level health: CPU, resident memory
// and goroutine count. It is the only observability surface of the server.
type MonitorWorker struct {
	log      *slog.Logger
	interval time.Duration
}

func NewMonitorWorker(log *slog.Logger, interval time.Duration) *MonitorWorker {
	return &MonitorWorker{log: log, interval: interval}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			cpu, err := self.CPUPercent()
			if err != nil {
				w.log.Error("Error while reading process cpu usage", "err", err)
				continue
			}
			ram, err := self.MemoryPercent()
			if err != nil {
				w.log.Error("Error while reading process ram usage", "err", err)
				continue
			}
			w.log.Info("Health",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"goroutines", goruntime.NumGoroutine())
		}
	}
}
