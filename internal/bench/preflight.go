package bench

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const defaultIPForwardPath = "/proc/sys/net/ipv4/ip_forward"

// Preflight verifies the host can run network-emulated experiments before any
// output directory is created. MahiMahi needs the emulator shells on PATH and
// IP forwarding enabled; a clear message beats a cryptic mid-batch failure.
type Preflight struct {
	// Binaries that must resolve via PATH lookup: the emulator shells and the
	// runner command.
	Binaries []string
	// IPForwardPath is the sysctl file checked for IP forwarding.
	// Empty means /proc/sys/net/ipv4/ip_forward.
	IPForwardPath string
}

// Check runs all preflight checks and returns an *EnvironmentError on the
// first failure.
func (p Preflight) Check() error {
	for _, bin := range p.Binaries {
		if _, err := exec.LookPath(bin); err != nil {
			return &EnvironmentError{
				Check:  "binary " + bin,
				Detail: fmt.Sprintf("%v; install the network emulator and test framework first", err),
			}
		}
	}

	path := p.IPForwardPath
	if path == "" {
		path = defaultIPForwardPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &EnvironmentError{
			Check:  "ip forwarding",
			Detail: fmt.Sprintf("cannot read %s: %v", path, err),
		}
	}
	if strings.TrimSpace(string(data)) != "1" {
		return &EnvironmentError{
			Check:  "ip forwarding",
			Detail: "disabled; enable with `sudo sysctl -w net.ipv4.ip_forward=1` (the emulator needs it)",
		}
	}
	return nil
}
