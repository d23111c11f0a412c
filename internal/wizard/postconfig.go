package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lxcforge/internal/logging"
	"lxcforge/internal/provision"
)

const authorizedKeysTarget = "/root/.ssh/authorized_keys"

// postConfigure finishes the container after first boot: locale,
// timezone and SSH access, then an optional reboot to apply everything.
func (w *Wizard) postConfigure(ctx context.Context, spec *provision.ContainerSpec) error {
	if err := w.configureLocale(ctx, spec); err != nil {
		return err
	}
	if err := w.configureTimezone(ctx, spec); err != nil {
		return err
	}
	if err := w.finalizeSSH(ctx, spec); err != nil {
		return err
	}

	reboot, err := w.dlg.YesNo(w.cat.Get("reboot.title"), w.cat.Get("reboot.prompt"))
	if err != nil {
		return err
	}
	if reboot {
		if err := w.client.Reboot(ctx, spec.ID); err != nil {
			return fmt.Errorf("container reboot failed: %w", err)
		}
		logging.Logger().Info("container rebooted", zap.Int("id", spec.ID))
	}

	return nil
}

func (w *Wizard) configureLocale(ctx context.Context, spec *provision.ContainerSpec) error {
	locale := w.cfg.ContainerLocale

	switch spec.OSType {
	case provision.OSDebian, provision.OSUbuntu:
		cmd := fmt.Sprintf("sed -i 's/^# *%[1]s/%[1]s/' /etc/locale.gen && locale-gen && update-locale LANG=%[2]s",
			locale+" UTF-8", locale)
		if err := w.client.Exec(ctx, spec.ID, cmd); err != nil {
			return fmt.Errorf("locale configuration failed: %w", err)
		}
	default:
		// musl- and glibc-minimal images carry no locale machinery worth
		// touching.
		logging.Logger().Debug("skipping locale configuration",
			zap.String("ostype", string(spec.OSType)))
	}

	return nil
}

func (w *Wizard) configureTimezone(ctx context.Context, spec *provision.ContainerSpec) error {
	tz := w.cfg.ContainerTimezone

	cmd := fmt.Sprintf("ln -sf /usr/share/zoneinfo/%[1]s /etc/localtime && echo %[1]s > /etc/timezone", tz)
	if err := w.client.Exec(ctx, spec.ID, cmd); err != nil {
		return fmt.Errorf("timezone configuration failed: %w", err)
	}

	return nil
}

// finalizeSSH installs the staged public key and disables password
// authentication, or leaves password login enabled when no key was
// resolved.
func (w *Wizard) finalizeSSH(ctx context.Context, spec *provision.ContainerSpec) error {
	if !spec.HasSSHKey() {
		cmd := "sed -i 's/^#\\?PermitRootLogin.*/PermitRootLogin yes/' /etc/ssh/sshd_config"
		if err := w.client.Exec(ctx, spec.ID, cmd); err != nil {
			return fmt.Errorf("enabling password login failed: %w", err)
		}
		logging.Logger().Info("password login enabled", zap.Int("id", spec.ID))
		return nil
	}

	if err := w.client.Exec(ctx, spec.ID, "mkdir -p /root/.ssh && chmod 700 /root/.ssh"); err != nil {
		return fmt.Errorf("preparing .ssh directory failed: %w", err)
	}
	if err := w.client.Push(ctx, spec.ID, spec.SSHPublicKeyPath, authorizedKeysTarget); err != nil {
		return fmt.Errorf("installing authorized key failed: %w", err)
	}
	if err := w.client.Exec(ctx, spec.ID, "chmod 600 "+authorizedKeysTarget); err != nil {
		return fmt.Errorf("securing authorized key failed: %w", err)
	}

	cmd := "sed -i 's/^#\\?PasswordAuthentication.*/PasswordAuthentication no/' /etc/ssh/sshd_config"
	if err := w.client.Exec(ctx, spec.ID, cmd); err != nil {
		return fmt.Errorf("disabling password login failed: %w", err)
	}

	logging.Logger().Info("key login finalized", zap.Int("id", spec.ID))
	return nil
}
