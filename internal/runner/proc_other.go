//go:build !unix

package runner

import (
	"os/exec"
	"syscall"
	"time"
)

// killProcessGroup cannot reach forked children here, so Wait stops
// waiting on their pipes shortly after the shell is killed.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = time.Second
}

func signalName(status syscall.WaitStatus) string {
	return status.Signal().String()
}
