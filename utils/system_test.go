package utils

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestKillProcessTreeInvalidPid(t *testing.T) {
	if n := KillProcessTree(0); n != 0 {
		t.Errorf("KillProcessTree(0) = %d; want 0", n)
	}
	if n := KillProcessTree(-5); n != 0 {
		t.Errorf("KillProcessTree(-5) = %d; want 0", n)
	}
}

func TestKillProcessTree(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep(1)")
	}
	sleepBin, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command(sleepBin, "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	if n := KillProcessTree(cmd.Process.Pid); n != 1 {
		t.Errorf("KillProcessTree = %d; want 1", n)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process still running after KillProcessTree")
	}
}
