package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
	"github.com/glorpus-work/imgurdl/pkg/hooks"
)

// NewHooksCmd creates the hooks command for managing batch hook scripts.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage batch hook scripts",
		Long: `Manage the Tengo scripts run before and after every download batch.
Scripts live in the hooks directory (hooks_dir) as pre-batch.tengo and post-batch.tengo.`,
	}

	cmd.AddCommand(newHooksInitCmd(), newHooksListCmd())
	return cmd
}

func newHooksInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write commented hook templates to the hooks directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return writeHookTemplates(cmd, cfg.HooksDir(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing hook scripts")
	return cmd
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed hook scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir, err := fsutil.ExpandHome(cfg.HooksDir())
			if err != nil {
				return err
			}
			for _, hookType := range hooks.Types {
				path := filepath.Join(dir, string(hookType)+hooks.HookFileExtension)
				status := "not installed"
				if _, err := os.Stat(path); err == nil {
					status = path
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hookType, status)
			}
			return nil
		},
	}
}

func writeHookTemplates(cmd *cobra.Command, dir string, force bool) error {
	if dir == "" {
		return fmt.Errorf("no hooks directory configured")
	}
	dir, err := fsutil.ExpandHome(dir)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	for _, hookType := range hooks.Types {
		path := filepath.Join(dir, string(hookType)+hooks.HookFileExtension)
		if _, err := os.Stat(path); err == nil && !force {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: file exists (use --force to overwrite)\n", path)
			continue
		}
		if err := os.WriteFile(path, []byte(hooks.HookTemplate(hookType)+"\n"), fsutil.FileModeDefault); err != nil {
			return fmt.Errorf("failed to write hook template: %w", err)
		}
		logger.Success("Hook template written", logger.Fields{"hook": string(hookType), "path": path})
	}
	return nil
}
