package pct

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"lxcforge/internal/provision"
)

// CreateOptions carries the host-level settings the argument builder
// combines with the container spec.
type CreateOptions struct {
	TemplateDir  string
	Storage      string
	Bridge       string
	SubnetPrefix string
	CIDRBits     int
	Gateway      string
	SwapMB       int
	Arch         string
	Now          time.Time
}

// CreateArgs synthesizes the full `pct create` argument list from a
// complete container spec. It is a pure function: same spec and options,
// same argv. The root password is deliberately absent; it travels
// through the password channel handed to Client.Create, so the loggable
// form of the command never contains it.
func CreateArgs(spec provision.ContainerSpec, opts CreateOptions) []string {
	args := []string{
		strconv.Itoa(spec.ID),
		filepath.Join(opts.TemplateDir, spec.TemplateFile),
		"--hostname", spec.Hostname,
		"--arch", opts.Arch,
		"--cores", strconv.Itoa(spec.Cores),
		"--memory", strconv.Itoa(spec.MemoryMB),
		"--swap", strconv.Itoa(opts.SwapMB),
		"--unprivileged", "1",
		"--features", "nesting=1",
		"--net0", networkDescriptor(spec, opts),
		"--rootfs", fmt.Sprintf("%s:%d", opts.Storage, spec.RootfsGB),
		"--ostype", string(spec.OSType),
		"--description", fmt.Sprintf("provisioned by lxcforge at %s", opts.Now.Format(time.RFC3339)),
		"--password",
	}

	if spec.HasSSHKey() {
		args = append(args, "--ssh-public-keys", spec.SSHPublicKeyPath)
	}

	return args
}

func networkDescriptor(spec provision.ContainerSpec, opts CreateOptions) string {
	if spec.NetworkMode == provision.NetworkStatic {
		return fmt.Sprintf("name=eth0,bridge=%s,ip=%s.%d/%d,gw=%s",
			opts.Bridge, opts.SubnetPrefix, spec.HostOctet, opts.CIDRBits, opts.Gateway)
	}
	return fmt.Sprintf("name=eth0,bridge=%s,ip=dhcp", opts.Bridge)
}
