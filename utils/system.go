package utils

import (
	"log"

	"github.com/shirou/gopsutil/v3/process"
)

// KillProcessTree kills the process with the given pid and all of its
// descendants, children first. Processes that already exited are skipped.
// It returns the number of processes that were signalled.
func KillProcessTree(pid int) int {
	if pid <= 0 {
		return 0
	}

	exists, err := process.PidExists(int32(pid))
	if err != nil || !exists {
		return 0
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return 0
	}
	return killTree(p)
}

func killTree(p *process.Process) int {
	killed := 0

	// Children returns an error when there are none.
	if children, err := p.Children(); err == nil {
		for _, child := range children {
			killed += killTree(child)
		}
	}

	if running, err := p.IsRunning(); err != nil || !running {
		return killed
	}
	if err := p.Kill(); err != nil {
		log.Printf("WARN: could not kill process %d: %v", p.Pid, err)
		return killed
	}
	return killed + 1
}
