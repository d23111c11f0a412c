// Package provision defines the container specification assembled by the
// wizard and consumed by the pct command builder.
package provision

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OSType identifies the container's OS family, derived from the template
// filename. The set is closed; pct only accepts known ostype tags.
type OSType string

const (
	OSDebian OSType = "debian"
	OSUbuntu OSType = "ubuntu"
	OSCentOS OSType = "centos"
	OSArch   OSType = "archlinux"
	OSAlpine OSType = "alpine"
)

// NetworkMode selects how the container's address is assigned.
type NetworkMode string

const (
	NetworkDHCP   NetworkMode = "dhcp"
	NetworkStatic NetworkMode = "static"
)

// ContainerSpec is the single record built up stage by stage. The wizard
// is its only writer; everything downstream reads it.
type ContainerSpec struct {
	ID       int
	Hostname string
	Password string

	Cores    int
	MemoryMB int
	RootfsGB int

	TemplateFile string
	OSType       OSType

	NetworkMode NetworkMode
	HostOctet   int // last octet, static mode only

	// Resolved authorized-key line and the temp file it was staged into.
	// Both empty when the operator's key comment matched nothing; the
	// container then falls back to password login.
	SSHPublicKeyMaterial string
	SSHPublicKeyPath     string
}

// Complete reports whether every field required for creation is set.
// A spec that fails this check must never reach the command builder.
func (s *ContainerSpec) Complete() error {
	switch {
	case s.ID <= 0:
		return fmt.Errorf("container ID not allocated")
	case s.Hostname == "":
		return fmt.Errorf("hostname not set")
	case s.Password == "":
		return fmt.Errorf("password not set")
	case s.Cores <= 0 || s.MemoryMB <= 0 || s.RootfsGB <= 0:
		return fmt.Errorf("resource values not set")
	case s.TemplateFile == "":
		return fmt.Errorf("template not selected")
	case s.OSType == "":
		return fmt.Errorf("OS type not detected")
	case s.NetworkMode == "":
		return fmt.Errorf("network mode not selected")
	case s.NetworkMode == NetworkStatic && s.HostOctet == 0:
		return fmt.Errorf("host octet not set")
	}
	return nil
}

// HasSSHKey reports whether key-based login was resolved.
func (s *ContainerSpec) HasSSHKey() bool {
	return s.SSHPublicKeyMaterial != ""
}

var (
	previewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	previewKeyStyle   = lipgloss.NewStyle().Bold(true).Width(12)
	previewBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Preview renders the resolved spec for the dry-run exit. The password
// never appears; only its length does.
func (s *ContainerSpec) Preview() string {
	auth := "temporary password login"
	if s.HasSSHKey() {
		auth = "SSH public key login"
	}

	network := string(s.NetworkMode)
	if s.NetworkMode == NetworkStatic {
		network = fmt.Sprintf("static, host octet %d", s.HostOctet)
	}

	rows := []struct{ key, value string }{
		{"ID", fmt.Sprintf("%d", s.ID)},
		{"Hostname", s.Hostname},
		{"Password", fmt.Sprintf("(%d characters)", len(s.Password))},
		{"Cores", fmt.Sprintf("%d", s.Cores)},
		{"Memory", fmt.Sprintf("%d MB", s.MemoryMB)},
		{"Rootfs", fmt.Sprintf("%d GB", s.RootfsGB)},
		{"Template", s.TemplateFile},
		{"OS type", string(s.OSType)},
		{"Network", network},
		{"Auth", auth},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(previewKeyStyle.Render(row.key))
		b.WriteString(row.value)
		b.WriteString("\n")
	}

	return previewTitleStyle.Render("Resolved container") + "\n" +
		previewBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
