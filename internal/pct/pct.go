// Package pct drives the virtualization host's container control plane.
package pct

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"lxcforge/internal/logging"
)

// ErrTimeout marks a control-plane call that exceeded its deadline. The
// baseline tooling would block forever; we surface it as its own kind.
var ErrTimeout = errors.New("control-plane command timed out")

// DefaultTimeout bounds every control-plane call. Container creation can
// legitimately take minutes while the template is extracted.
const DefaultTimeout = 10 * time.Minute

// Client is the container control plane as the wizard sees it.
type Client interface {
	// Create provisions a container from a fully synthesized argument
	// list. The root password is never part of args; it is streamed to
	// the child process from passwordFile.
	Create(ctx context.Context, args []string, passwordFile string) error

	// Start boots the container.
	Start(ctx context.Context, id int) error

	// Exec runs a shell command inside the container.
	Exec(ctx context.Context, id int, command string) error

	// Push copies a local file into the container's filesystem.
	Push(ctx context.Context, id int, localPath, remotePath string) error

	// Reboot restarts the container.
	Reboot(ctx context.Context, id int) error

	// UsedIDs returns the identifiers of all containers currently
	// present on the host.
	UsedIDs(ctx context.Context) ([]int, error)
}

// CLI is the Client implementation shelling out to the pct binary.
type CLI struct {
	Binary  string
	Timeout time.Duration
	runner  commandRunner
}

// NewCLI returns a Client driving the given pct binary.
func NewCLI(binary string) *CLI {
	return &CLI{
		Binary:  binary,
		Timeout: DefaultTimeout,
		runner:  runExec,
	}
}

func (c *CLI) Create(ctx context.Context, args []string, passwordFile string) error {
	f, err := os.Open(passwordFile)
	if err != nil {
		return fmt.Errorf("failed to open password channel: %w", err)
	}
	defer f.Close()

	return c.run(ctx, f, append([]string{"create"}, args...)...)
}

func (c *CLI) Start(ctx context.Context, id int) error {
	return c.run(ctx, nil, "start", strconv.Itoa(id))
}

func (c *CLI) Exec(ctx context.Context, id int, command string) error {
	// The command is passed as a discrete argument list; nothing here is
	// re-parsed by an intermediate host shell.
	return c.run(ctx, nil, "exec", strconv.Itoa(id), "--", "sh", "-c", command)
}

func (c *CLI) Push(ctx context.Context, id int, localPath, remotePath string) error {
	return c.run(ctx, nil, "push", strconv.Itoa(id), localPath, remotePath)
}

func (c *CLI) Reboot(ctx context.Context, id int) error {
	return c.run(ctx, nil, "reboot", strconv.Itoa(id))
}

func (c *CLI) UsedIDs(ctx context.Context) ([]int, error) {
	out, err := c.runCapture(ctx, "list")
	if err != nil {
		return nil, err
	}
	return ParseListIDs(out), nil
}

func (c *CLI) run(ctx context.Context, stdin *os.File, args ...string) error {
	_, err := c.invoke(ctx, stdin, args...)
	return err
}

func (c *CLI) runCapture(ctx context.Context, args ...string) (string, error) {
	return c.invoke(ctx, nil, args...)
}

func (c *CLI) invoke(ctx context.Context, stdin *os.File, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.Logger().Debug("running control-plane command",
		zap.String("binary", c.Binary),
		zap.Strings("args", args))

	runner := c.runner
	if runner == nil {
		runner = runExec
	}

	stdout, stderr, err := runner(ctx, c.Binary, args, stdin)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s %s after %s", ErrTimeout, c.Binary, args[0], timeout)
		}
		return "", fmt.Errorf("%s %s failed: %w: %s", c.Binary, args[0], err, strings.TrimSpace(stderr))
	}

	return stdout, nil
}

// ParseListIDs extracts container identifiers from the tabular `pct
// list` output. The first line is the column header; the first field of
// every following line is the VMID.
func ParseListIDs(out string) []int {
	var ids []int

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if i == 0 || len(fields) == 0 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids
}

// commandRunner abstracts process execution for tests.
type commandRunner func(ctx context.Context, binary string, args []string, stdin *os.File) (stdout, stderr string, err error)

func runExec(ctx context.Context, binary string, args []string, stdin *os.File) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if stdin != nil {
		cmd.Stdin = stdin
	}

	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
