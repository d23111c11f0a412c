package pct

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lxcforge/internal/provision"
)

func testOptions() CreateOptions {
	return CreateOptions{
		TemplateDir:  "/var/lib/vz/template/cache",
		Storage:      "local-lvm",
		Bridge:       "vmbr0",
		SubnetPrefix: "192.168.1",
		CIDRBits:     24,
		Gateway:      "192.168.1.1",
		SwapMB:       512,
		Arch:         "amd64",
		Now:          time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
}

func testSpec() provision.ContainerSpec {
	return provision.ContainerSpec{
		ID:           104,
		Hostname:     "web-01",
		Password:     "hunter22",
		Cores:        2,
		MemoryMB:     1024,
		RootfsGB:     8,
		TemplateFile: "debian-12-standard_12.7-1_amd64.tar.zst",
		OSType:       provision.OSDebian,
		NetworkMode:  provision.NetworkDHCP,
	}
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag {
			require.Less(t, i+1, len(args), "flag %s has no value", flag)
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}

func TestCreateArgsContents(t *testing.T) {
	args := CreateArgs(testSpec(), testOptions())

	assert.Equal(t, "104", args[0])
	assert.Equal(t, "/var/lib/vz/template/cache/debian-12-standard_12.7-1_amd64.tar.zst", args[1])
	assert.Equal(t, "web-01", argValue(t, args, "--hostname"))
	assert.Equal(t, "amd64", argValue(t, args, "--arch"))
	assert.Equal(t, "2", argValue(t, args, "--cores"))
	assert.Equal(t, "1024", argValue(t, args, "--memory"))
	assert.Equal(t, "512", argValue(t, args, "--swap"))
	assert.Equal(t, "1", argValue(t, args, "--unprivileged"))
	assert.Equal(t, "nesting=1", argValue(t, args, "--features"))
	assert.Equal(t, "name=eth0,bridge=vmbr0,ip=dhcp", argValue(t, args, "--net0"))
	assert.Equal(t, "local-lvm:8", argValue(t, args, "--rootfs"))
	assert.Equal(t, "debian", argValue(t, args, "--ostype"))
	assert.Contains(t, argValue(t, args, "--description"), "2026-08-24T12:00:00Z")
}

func TestCreateArgsStaticNetwork(t *testing.T) {
	spec := testSpec()
	spec.NetworkMode = provision.NetworkStatic
	spec.HostOctet = 42

	args := CreateArgs(spec, testOptions())
	assert.Equal(t, "name=eth0,bridge=vmbr0,ip=192.168.1.42/24,gw=192.168.1.1", argValue(t, args, "--net0"))
}

func TestCreateArgsNeverContainPassword(t *testing.T) {
	args := CreateArgs(testSpec(), testOptions())

	joined := strings.Join(args, " ")
	assert.NotContains(t, joined, "hunter22")
	// The bare flag is present; the value arrives on the child's stdin.
	assert.Equal(t, "--password", args[len(args)-1])
}

func TestCreateArgsSSHKeyConditional(t *testing.T) {
	withoutKey := CreateArgs(testSpec(), testOptions())
	assert.NotContains(t, withoutKey, "--ssh-public-keys")

	spec := testSpec()
	spec.SSHPublicKeyMaterial = "ssh-ed25519 AAAA alice@laptop"
	spec.SSHPublicKeyPath = "/tmp/lxcforge-key-x"

	withKey := CreateArgs(spec, testOptions())
	assert.Equal(t, "/tmp/lxcforge-key-x", argValue(t, withKey, "--ssh-public-keys"))
}

func TestCreateArgsDeterministic(t *testing.T) {
	assert.Equal(t, CreateArgs(testSpec(), testOptions()), CreateArgs(testSpec(), testOptions()))
}
