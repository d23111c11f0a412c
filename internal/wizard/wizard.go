// Package wizard runs the interactive provisioning pipeline: an ordered
// stage sequence from privilege check to post-configuration, with
// validation retry loops, fail-fast error policy and unconditional
// cleanup of staged temporary files.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lxcforge/internal/config"
	"lxcforge/internal/dialog"
	"lxcforge/internal/i18n"
	"lxcforge/internal/logging"
	"lxcforge/internal/pct"
	"lxcforge/internal/provision"
	"lxcforge/internal/sshkey"
	"lxcforge/internal/templates"
	"lxcforge/internal/validate"
	"lxcforge/internal/vmid"
)

// ErrPrivilege is returned when the caller does not hold root privileges.
var ErrPrivilege = errors.New("elevated privileges required")

// Options configures a single wizard run.
type Options struct {
	// DryRun resolves the full container spec, prints it and exits
	// without any mutating control-plane call.
	DryRun bool
}

// Wizard owns one provisioning run and every temporary resource staged
// during it.
type Wizard struct {
	cfg    *config.Config
	cat    *i18n.Catalog
	dlg    dialog.Dialog
	client pct.Client
	opts   Options

	// swapped in tests
	geteuid func() int
	now     func() time.Time
	out     io.Writer

	staged []string
}

// New assembles a wizard from its collaborators.
func New(cfg *config.Config, cat *i18n.Catalog, dlg dialog.Dialog, client pct.Client, opts Options) *Wizard {
	return &Wizard{
		cfg:     cfg,
		cat:     cat,
		dlg:     dlg,
		client:  client,
		opts:    opts,
		geteuid: os.Geteuid,
		now:     time.Now,
		out:     os.Stdout,
	}
}

type stage struct {
	name string
	fn   func(context.Context, *provision.ContainerSpec) error
}

// Run walks the stage sequence. Validation failures re-prompt inside
// their stage; everything else aborts the run. Cleanup executes on every
// exit path.
func (w *Wizard) Run(ctx context.Context) (err error) {
	defer w.Cleanup()
	defer func() {
		if err != nil {
			w.reportFatal(err)
		}
	}()

	spec := &provision.ContainerSpec{}

	resolveStages := []stage{
		{"privilege-check", w.privilegeCheck},
		{"mode-select", w.modeSelect},
		{"id-allocate", w.allocateID},
		{"hostname-input", w.hostnameInput},
		{"password-input", w.passwordInput},
		{"template-select", w.templateSelect},
		{"os-detect", w.osDetect},
		{"resource-input", w.resourceInput},
		{"credential-resolve", w.credentialResolve},
	}

	if err := w.runStages(ctx, resolveStages, spec); err != nil {
		return err
	}

	if err := spec.Complete(); err != nil {
		return fmt.Errorf("container spec incomplete: %w", err)
	}

	if w.opts.DryRun {
		logging.Logger().Info("dry run requested, stopping before creation",
			zap.Int("id", spec.ID), zap.String("hostname", spec.Hostname))
		fmt.Fprintln(w.out, spec.Preview())
		return nil
	}

	provisionStages := []stage{
		{"create-container", w.createContainer},
		{"start-container", w.startContainer},
		{"post-configure", w.postConfigure},
	}

	if err := w.runStages(ctx, provisionStages, spec); err != nil {
		return err
	}

	if err := w.dlg.Message(w.cat.Get("done.title"), w.cat.Getf("done.text", spec.ID, spec.Hostname)); err != nil {
		return err
	}

	logging.Logger().Info("provisioning finished",
		zap.Int("id", spec.ID), zap.String("hostname", spec.Hostname))
	return nil
}

func (w *Wizard) runStages(ctx context.Context, stages []stage, spec *provision.ContainerSpec) error {
	for _, st := range stages {
		logging.Logger().Info("stage started", zap.String("stage", st.name))

		if err := st.fn(ctx, spec); err != nil {
			logging.Logger().Error("stage failed", zap.String("stage", st.name), zap.Error(err))
			return fmt.Errorf("stage %s: %w", st.name, err)
		}

		logging.Logger().Info("stage completed", zap.String("stage", st.name))
	}
	return nil
}

func (w *Wizard) privilegeCheck(context.Context, *provision.ContainerSpec) error {
	if w.geteuid() != 0 {
		return ErrPrivilege
	}
	return nil
}

func (w *Wizard) modeSelect(ctx context.Context, spec *provision.ContainerSpec) error {
	mode, err := w.dlg.Menu(w.cat.Get("mode.title"), w.cat.Get("mode.prompt"), []dialog.Option{
		{Key: string(provision.NetworkDHCP), Label: w.cat.Get("mode.dhcp")},
		{Key: string(provision.NetworkStatic), Label: w.cat.Get("mode.static")},
	})
	if err != nil {
		return err
	}
	spec.NetworkMode = provision.NetworkMode(mode)

	if spec.NetworkMode != provision.NetworkStatic {
		return nil
	}

	for {
		raw, err := w.dlg.Input(w.cat.Get("octet.title"),
			w.cat.Getf("octet.prompt", w.cfg.SubnetPrefix), "")
		if err != nil {
			return err
		}
		if err := validate.HostOctet(raw); err != nil {
			if err := w.dlg.Message(w.cat.Get("error.title"), w.cat.Get("octet.invalid")); err != nil {
				return err
			}
			continue
		}
		spec.HostOctet, _ = strconv.Atoi(raw)
		return nil
	}
}

func (w *Wizard) allocateID(ctx context.Context, spec *provision.ContainerSpec) error {
	used, err := w.client.UsedIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}

	id, err := vmid.Next(used, w.cfg.IDRangeLow, w.cfg.IDRangeHigh)
	if err != nil {
		return err
	}

	spec.ID = id
	logging.Logger().Info("allocated container ID", zap.Int("id", id))
	return nil
}

func (w *Wizard) hostnameInput(ctx context.Context, spec *provision.ContainerSpec) error {
	for {
		raw, err := w.dlg.Input(w.cat.Get("hostname.title"), w.cat.Get("hostname.prompt"), spec.Hostname)
		if err != nil {
			return err
		}
		if err := validate.Hostname(raw); err != nil {
			if err := w.dlg.Message(w.cat.Get("error.title"), w.cat.Get("hostname.invalid")); err != nil {
				return err
			}
			continue
		}
		spec.Hostname = raw
		return nil
	}
}

func (w *Wizard) passwordInput(ctx context.Context, spec *provision.ContainerSpec) error {
	for {
		raw, err := w.dlg.Password(w.cat.Get("password.title"), w.cat.Get("password.prompt"))
		if err != nil {
			return err
		}
		if err := validate.Password(raw); err != nil {
			if err := w.dlg.Message(w.cat.Get("error.title"), w.cat.Get("password.invalid")); err != nil {
				return err
			}
			continue
		}
		spec.Password = raw
		logging.Logger().Info("password accepted", zap.Int("length", len(raw)))
		return nil
	}
}

func (w *Wizard) templateSelect(ctx context.Context, spec *provision.ContainerSpec) error {
	names, err := templates.List(w.cfg.TemplateDir, w.cfg.TemplateGlob)
	if err != nil {
		return err
	}

	options := make([]dialog.Option, 0, len(names))
	for _, name := range names {
		options = append(options, dialog.Option{Key: name, Label: name})
	}

	selected, err := w.dlg.Menu(w.cat.Get("template.title"), w.cat.Get("template.prompt"), options)
	if err != nil {
		return err
	}

	spec.TemplateFile = selected
	return nil
}

func (w *Wizard) osDetect(ctx context.Context, spec *provision.ContainerSpec) error {
	osType, err := templates.OSTypeFromFilename(spec.TemplateFile)
	if err != nil {
		return err
	}

	spec.OSType = osType
	logging.Logger().Info("detected OS type",
		zap.String("template", spec.TemplateFile), zap.String("ostype", string(osType)))
	return nil
}

func (w *Wizard) resourceInput(ctx context.Context, spec *provision.ContainerSpec) error {
	prompts := []struct {
		titleKey, promptKey string
		def                 int
		dest                *int
	}{
		{"cores.title", "cores.prompt", w.cfg.DefaultCores, &spec.Cores},
		{"memory.title", "memory.prompt", w.cfg.DefaultMemoryMB, &spec.MemoryMB},
		{"rootfs.title", "rootfs.prompt", w.cfg.DefaultRootfsGB, &spec.RootfsGB},
	}

	for _, p := range prompts {
		for {
			raw, err := w.dlg.Input(w.cat.Get(p.titleKey), w.cat.Get(p.promptKey), strconv.Itoa(p.def))
			if err != nil {
				return err
			}
			if err := validate.PositiveInt(raw); err != nil {
				if err := w.dlg.Message(w.cat.Get("error.title"), w.cat.Get("resource.invalid")); err != nil {
					return err
				}
				continue
			}
			*p.dest, _ = strconv.Atoi(raw)
			break
		}
	}
	return nil
}

func (w *Wizard) credentialResolve(ctx context.Context, spec *provision.ContainerSpec) error {
	var token string
	for {
		raw, err := w.dlg.Input(w.cat.Get("sshkey.title"), w.cat.Get("sshkey.prompt"), "")
		if err != nil {
			return err
		}
		if raw == "" {
			if err := w.dlg.Message(w.cat.Get("error.title"), w.cat.Get("sshkey.empty")); err != nil {
				return err
			}
			continue
		}
		token = raw
		break
	}

	match, found, err := sshkey.FindInFile(w.cfg.AuthorizedKeysPath, token)
	if err != nil {
		return err
	}

	// A miss never aborts provisioning: the container falls back to
	// temporary password login.
	if !found {
		logging.Logger().Info("no key matched, falling back to password login",
			zap.String("token", token))
		return w.dlg.Message(w.cat.Get("sshkey.title"), w.cat.Get("sshkey.notfound"))
	}

	path, err := match.Stage()
	if err != nil {
		return err
	}
	w.addStaged(path)

	spec.SSHPublicKeyMaterial = match.Line
	spec.SSHPublicKeyPath = path
	logging.Logger().Info("staged matching public key",
		zap.String("comment", match.Comment), zap.String("path", path))

	return w.dlg.Message(w.cat.Get("sshkey.title"), w.cat.Getf("sshkey.found", match.Comment))
}

func (w *Wizard) createContainer(ctx context.Context, spec *provision.ContainerSpec) error {
	passwordFile, err := w.stagePassword(spec.Password)
	if err != nil {
		return err
	}
	// The password channel lives for this stage only, success or not.
	defer w.removeStaged(passwordFile)

	args := pct.CreateArgs(*spec, pct.CreateOptions{
		TemplateDir:  w.cfg.TemplateDir,
		Storage:      w.cfg.Storage,
		Bridge:       w.cfg.Bridge,
		SubnetPrefix: w.cfg.SubnetPrefix,
		CIDRBits:     w.cfg.CIDRBits,
		Gateway:      w.cfg.Gateway,
		SwapMB:       w.cfg.SwapMB,
		Arch:         w.cfg.Arch,
		Now:          w.now(),
	})

	logging.Logger().Info("creating container",
		zap.Int("id", spec.ID), zap.Strings("args", args))

	if err := w.client.Create(ctx, args, passwordFile); err != nil {
		return fmt.Errorf("container creation failed: %w", err)
	}

	logging.Logger().Info("container created", zap.Int("id", spec.ID))
	return nil
}

func (w *Wizard) startContainer(ctx context.Context, spec *provision.ContainerSpec) error {
	if err := w.client.Start(ctx, spec.ID); err != nil {
		return fmt.Errorf("container start failed: %w", err)
	}

	logging.Logger().Info("container started", zap.Int("id", spec.ID))
	return nil
}

// stagePassword writes the password into a fresh owner-only temp file
// that is handed to the create call's stdin and removed right after.
func (w *Wizard) stagePassword(password string) (string, error) {
	path := filepath.Join(os.TempDir(), "lxcforge-pw-"+uuid.NewString())

	if err := os.WriteFile(path, []byte(password+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to stage password channel: %w", err)
	}

	w.addStaged(path)
	return path, nil
}

func (w *Wizard) addStaged(path string) {
	w.staged = append(w.staged, path)
}

func (w *Wizard) removeStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Logger().Warn("failed to remove staged file",
			zap.String("path", path), zap.Error(err))
	}
}

// Cleanup removes every staged temporary file. It runs on every exit
// path and may be invoked any number of times.
func (w *Wizard) Cleanup() {
	for _, path := range w.staged {
		w.removeStaged(path)
	}
	w.staged = nil
}

// reportFatal logs the categorized failure and surfaces it through the
// dialog subsystem before the process terminates non-zero.
func (w *Wizard) reportFatal(err error) {
	logging.Logger().Error("provisioning aborted", zap.Error(err))

	text := err.Error()
	switch {
	case errors.Is(err, dialog.ErrCancelled):
		text = w.cat.Get("error.cancelled")
	case errors.Is(err, ErrPrivilege):
		text = w.cat.Get("error.privilege")
	case errors.Is(err, vmid.ErrNoFreeID):
		text = w.cat.Get("error.no_free_id")
	case errors.Is(err, templates.ErrNoTemplates):
		text = w.cat.Get("error.no_templates")
	case errors.Is(err, templates.ErrUnknownOSType):
		text = w.cat.Getf("error.unknown_ostype", err.Error())
	case errors.Is(err, pct.ErrTimeout):
		text = err.Error()
	}

	if err := w.dlg.Message(w.cat.Get("error.title"), text); err != nil {
		logging.Logger().Warn("failed to show fatal error dialog", zap.Error(err))
	}
}
