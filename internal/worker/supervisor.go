package worker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
)

// stopPollInterval is how often the supervisor re-checks pid files while
// waiting for workers to exit.
const stopPollInterval = 500 * time.Millisecond

// Supervisor spawns and stops worker processes. It is transient: it keeps
// no state of its own and discovers workers through their pid files.
type Supervisor struct {
	workersDir string
	logPath    string
	logger     *utils.Logger
}

// NewSupervisor creates a supervisor over the given workers directory.
// Spawned workers append their output to logPath.
func NewSupervisor(workersDir, logPath string, logger *utils.Logger) *Supervisor {
	return &Supervisor{
		workersDir: workersDir,
		logPath:    logPath,
		logger:     logger.WithComponent("supervisor"),
	}
}

// Start spawns count detached worker processes by re-executing this binary
// with the hidden "worker run" subcommand. Each child gets its own session
// so it survives the CLI exiting.
func (s *Supervisor) Start(count int) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logFile, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open worker log: %w", err)
	}
	defer logFile.Close()

	for i := 0; i < count; i++ {
		cmd := exec.Command(exe, "worker", "run")
		cmd.Stdout = logFile
		cmd.Stderr = logFile
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to spawn worker: %w", err)
		}
		s.logger.Debug("Spawned worker pid %d", cmd.Process.Pid)
		if err := cmd.Process.Release(); err != nil {
			return fmt.Errorf("failed to detach worker: %w", err)
		}
	}

	return nil
}

// ActivePIDs lists the pids of live workers by checking pid files against
// running processes. Pid files whose process is gone are removed.
func (s *Supervisor) ActivePIDs() ([]int, error) {
	entries, err := os.ReadDir(s.workersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read workers dir: %w", err)
	}

	var pids []int
	for _, entry := range entries {
		pid, ok := pidFromFileName(entry.Name())
		if !ok {
			continue
		}
		if processAlive(pid) {
			pids = append(pids, pid)
		} else {
			os.Remove(filepath.Join(s.workersDir, entry.Name()))
		}
	}
	return pids, nil
}

// Stop sends SIGTERM to every live worker and waits up to timeout for
// their pid files to disappear. It returns the pids that were signalled
// and the pids still alive when the deadline passed.
func (s *Supervisor) Stop(timeout time.Duration) (signalled, remaining []int, err error) {
	pids, err := s.ActivePIDs()
	if err != nil {
		return nil, nil, err
	}
	if len(pids) == 0 {
		return nil, nil, nil
	}

	for _, pid := range pids {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			s.logger.Warn("Failed to signal pid %d: %v", pid, err)
			continue
		}
		signalled = append(signalled, pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		remaining, err = s.ActivePIDs()
		if err != nil {
			return signalled, remaining, err
		}
		if len(remaining) == 0 {
			return signalled, nil, nil
		}
		time.Sleep(stopPollInterval)
	}

	remaining, err = s.ActivePIDs()
	return signalled, remaining, err
}

// pidFromFileName parses a worker.<pid>.pid file name.
func pidFromFileName(name string) (int, bool) {
	if !strings.HasPrefix(name, "worker.") || !strings.HasSuffix(name, ".pid") {
		return 0, false
	}
	pidText := strings.TrimSuffix(strings.TrimPrefix(name, "worker."), ".pid")
	pid, err := strconv.Atoi(pidText)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
