package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"backup-tool/backupdir"
	"backup-tool/copytree"
	"backup-tool/diskspace"
	"backup-tool/report"
	"backup-tool/settings"
)

func (a *app) run(cmd *cobra.Command, args []string) error {
	a.log.Debug("Starting backup tool.")
	store := settings.New(a.opts.Home, a.log)

	if cmd.Flags().Changed("target") {
		return a.setTarget(store, a.flags.target)
	}

	a.log.Debug("Reading default backup directory.")
	target := store.ReadDefault()

	if len(args) == 0 {
		return usageError{errors.New("expected source_dir after options")}
	}
	source := args[0]

	if a.flags.schedule != "" {
		return a.runScheduled(cmd.Context(), target, source)
	}

	_, err := a.backup(target, source)
	return err
}

// setTarget canonicalizes dir and stores it as the new default target.
func (a *app) setTarget(store *settings.Store, dir string) error {
	a.log.Debug("-t option provided with argument: %s", dir)

	resolved, err := canonical(dir)
	if err != nil {
		return fmt.Errorf("invalid target directory: %w", err)
	}

	a.log.Debug("Updating default backup directory to: %s", resolved)
	if err := store.WriteDefault(resolved); err != nil {
		return fmt.Errorf("failed to update default backup directory: %w", err)
	}
	a.out.Plain("Updated default backup directory to: %s", resolved)
	return nil
}

// canonical returns the absolute, symlink-free form of an existing path.
func canonical(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (a *app) validateSource(source string) error {
	a.log.Debug("Validating source directory: %s", source)
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("invalid source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid source directory: %s is not a directory", source)
	}
	return nil
}

func (a *app) checkFreeSpace(target string) error {
	if a.flags.minFree == "" {
		return nil
	}
	required, err := diskspace.ParseSize(a.flags.minFree)
	if err != nil {
		return usageError{fmt.Errorf("--min-free: %w", err)}
	}

	available, err := diskspace.Free(target)
	if errors.Is(err, diskspace.ErrUnsupported) {
		a.log.Warn("Cannot check free space: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading free space: %w", err)
	}

	a.log.Debug("Available free space on %s: %s", target, diskspace.FormatBytes(available))
	if available < required {
		return fmt.Errorf("available free space (%s) is less than required minimum (%s)",
			diskspace.FormatBytes(available), diskspace.FormatBytes(required))
	}
	return nil
}

// backup copies source into a new timestamped directory under target.
// Failed entries inside the tree do not make it return an error.
func (a *app) backup(target, source string) (report.Report, error) {
	if err := a.validateSource(source); err != nil {
		return report.Report{}, err
	}
	if err := a.checkFreeSpace(target); err != nil {
		return report.Report{}, err
	}

	started := a.opts.Now()
	a.log.Debug("Creating timestamped backup directory in: %s", target)
	dst, err := backupdir.Create(target, started)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	a.out.Plain("Backing up '%s' to '%s'", source, dst)
	a.log.Debug("Starting backup process.")

	copier := &copytree.Copier{
		Log:     a.log,
		Include: a.flags.include,
		Exclude: a.flags.exclude,
	}
	res, err := copier.CopyTree(source, dst)
	rep := report.New(source, dst, started, a.opts.Now(), res)
	if err != nil {
		return rep, fmt.Errorf("backup of %s failed: %w", source, err)
	}

	if a.flags.report != "" {
		if err := report.Write(a.flags.report, rep); err != nil {
			a.log.Error("%v", err)
		} else {
			a.log.Debug("Report written to %s", a.flags.report)
		}
	}

	switch {
	case a.flags.keep > 0 && !rep.OK():
		a.log.Warn("Skipping cleanup of old backups: %d entries could not be copied.", len(rep.Failed))
	case a.flags.keep > 0:
		removed, err := backupdir.Prune(target, a.flags.keep)
		for _, dir := range removed {
			a.log.Info("Removed old backup: %s", dir)
		}
		if err != nil {
			a.log.Warn("Failed to clean up old backups: %v", err)
		}
	}

	a.out.Sub("%d files (%s) in %d directories, %d skipped, %d failed, %s",
		rep.Files, diskspace.FormatBytes(uint64(rep.Bytes)), rep.Directories, len(rep.Skipped), len(rep.Failed), rep.Elapsed)

	if !rep.OK() {
		a.log.Warn("Backup finished with %d entries that could not be copied.", len(rep.Failed))
		a.out.Plain("Backup completed with errors.")
		return rep, nil
	}

	a.log.Debug("Backup process completed successfully.")
	a.out.Success("Backup completed successfully!")
	return rep, nil
}
