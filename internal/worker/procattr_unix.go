//go:build linux || darwin

package worker

import (
	"os/exec"
	"syscall"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends sig to the entire process group led by pid. A
// negative pid targets the group rather than the single process, which is
// how the wall-clock timeout in spec.md §4.5 kills "child + descendants".
func killProcessGroup(pid int) {
	syscall.Kill(-pid, syscall.SIGKILL)
}
