package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

var (
	buildOnce sync.Once
	builtPath string
	buildErr  error
)

// buildBinary builds the docker-init binary once per test run and returns
// its path.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		wd, err := os.Getwd()
		if err != nil {
			buildErr = err
			return
		}
		projectRoot := filepath.Join(wd, "..", "..")

		dir, err := os.MkdirTemp("", "docker-init-test")
		if err != nil {
			buildErr = err
			return
		}
		builtPath = filepath.Join(dir, "docker-init")

		cmd := exec.Command("go", "build", "-o", builtPath, "./cmd/docker-init")
		cmd.Dir = projectRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = err
			t.Logf("build output:\n%s", output)
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return builtPath
}

// startInit starts docker-init in its own process group so that its
// group-wide sweep cannot reach the test runner.
func startInit(t *testing.T, binary string, args ...string) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start docker-init: %v", err)
	}

	t.Cleanup(func() {
		if cmd.ProcessState == nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
	})

	return cmd
}

// waitExit waits for cmd to exit and returns its exit code, failing the
// test if it does not exit within timeout.
func waitExit(t *testing.T, cmd *exec.Cmd, timeout time.Duration) int {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-done:
		return cmd.ProcessState.ExitCode()
	case <-time.After(timeout):
		cmd.Process.Kill()
		t.Fatalf("docker-init did not exit within %v", timeout)
		return -1
	}
}
