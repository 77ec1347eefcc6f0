//go:build windows

package worker

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {
	// No process-group semantics on Windows; the caller kills the
	// immediate child directly with cmd.Process.Kill().
}

func killProcessGroup(pid int) {
	// Best effort: Windows has no kill(-pid, sig) equivalent without
	// job objects. The caller already calls cmd.Process.Kill() for the
	// immediate child; descendants are not guaranteed to die here.
}
