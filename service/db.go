package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDBCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the database",
		Long: `Manage the Badger database directory (data_dir).

Subcommands:
  init     - Create a new empty database
  clean    - Delete the database
  backup   - Write a backup file
  restore  - Replace the database with a backup`,
	}

	var yes bool
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.loadForAdmin()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if exists(env.cfg.DataDir) {
				fmt.Fprintln(out, "Database already exists. Use 'db clean' first if you want to reinitialize.")
				return nil
			}
			store, err := env.openStore()
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Database initialized successfully")
			return nil
		},
	}

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.loadForAdmin()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !exists(env.cfg.DataDir) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(env.cfg.DataDir); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}

	var backupDir string
	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.loadForAdmin()
			if err != nil {
				return err
			}
			if !exists(env.cfg.DataDir) {
				return fmt.Errorf("no database exists at %s", env.cfg.DataDir)
			}
			if err := os.MkdirAll(backupDir, 0o755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			store, err := env.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			path := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if err := store.Backup(f); err != nil {
				return err
			}
			if err := f.Sync(); err != nil {
				return err
			}
			env.logger.Info("database backed up", zap.String("file", path))
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", path)
			return nil
		},
	}
	backup.Flags().StringVar(&backupDir, "dir", "data/backups", "Directory for backup files")

	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.loadForAdmin()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer f.Close()
			fi, err := f.Stat()
			if err != nil {
				return err
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", args[0])
			}

			if exists(env.cfg.DataDir) {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(out, "Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(env.cfg.DataDir); err != nil {
					return fmt.Errorf("remove existing database: %w", err)
				}
			}

			store, err := env.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Restore(f); err != nil {
				return err
			}
			fmt.Fprintln(out, "Database restored successfully")
			return nil
		},
	}

	cmd.AddCommand(initCmd, clean, backup, restore)
	return cmd
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on the command's input. Anything but y
// means no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
