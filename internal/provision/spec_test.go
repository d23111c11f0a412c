package provision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() ContainerSpec {
	return ContainerSpec{
		ID:           104,
		Hostname:     "web-01",
		Password:     "hunter22",
		Cores:        2,
		MemoryMB:     1024,
		RootfsGB:     8,
		TemplateFile: "debian-12-standard_12.7-1_amd64.tar.zst",
		OSType:       OSDebian,
		NetworkMode:  NetworkDHCP,
	}
}

func TestCompleteAcceptsFullSpec(t *testing.T) {
	spec := validSpec()
	assert.NoError(t, spec.Complete())
}

func TestCompleteRejectsPartialSpec(t *testing.T) {
	for name, mutate := range map[string]func(*ContainerSpec){
		"no id":       func(s *ContainerSpec) { s.ID = 0 },
		"no hostname": func(s *ContainerSpec) { s.Hostname = "" },
		"no password": func(s *ContainerSpec) { s.Password = "" },
		"no cores":    func(s *ContainerSpec) { s.Cores = 0 },
		"no template": func(s *ContainerSpec) { s.TemplateFile = "" },
		"no ostype":   func(s *ContainerSpec) { s.OSType = "" },
		"static without octet": func(s *ContainerSpec) {
			s.NetworkMode = NetworkStatic
			s.HostOctet = 0
		},
	} {
		t.Run(name, func(t *testing.T) {
			spec := validSpec()
			mutate(&spec)
			assert.Error(t, spec.Complete())
		})
	}
}

func TestPreviewHidesPassword(t *testing.T) {
	spec := validSpec()
	preview := spec.Preview()

	require.NotEmpty(t, preview)
	assert.NotContains(t, preview, "hunter22")
	assert.Contains(t, preview, "8 characters")
	assert.Contains(t, preview, "web-01")
	assert.Contains(t, preview, "temporary password login")
}

func TestPreviewShowsKeyAuth(t *testing.T) {
	spec := validSpec()
	spec.SSHPublicKeyMaterial = "ssh-ed25519 AAAA alice@laptop"
	preview := spec.Preview()
	assert.True(t, strings.Contains(preview, "SSH public key login"))
}
