package fit

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/app"
	"github.com/arthurssouza42/fit/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of the food log",
}

var (
	backupOut    string
	backupDir    string
	restoreFile  string
	restoreForce bool
)

// dataFile is the file holding the food log for the configured backend.
func (r *runtime) dataFile() (string, error) {
	if r.cfg.Storage.Backend == app.BackendCSV {
		return r.logPath()
	}
	return r.dbPath, nil
}

func (r *runtime) backupDirectory() (string, error) {
	if backupDir != "" {
		return backupDir, nil
	}
	path, err := r.dataFile()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "backups"), nil
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			src, err := rt.dataFile()
			if err != nil {
				return err
			}
			if rt.cfg.Storage.Backend == app.BackendSQLite {
				if _, err := rt.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
					return fmt.Errorf("checkpoint database: %w", err)
				}
			}
			out := backupOut
			if out == "" {
				dir, err := rt.backupDirectory()
				if err != nil {
					return err
				}
				out = filepath.Join(dir, fmt.Sprintf("fit-%s%s", time.Now().Format("20060102-150405"), filepath.Ext(src)))
			}
			info, err := service.CreateBackup(src, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			src, err := rt.dataFile()
			if err != nil {
				return err
			}
			dir, err := rt.backupDirectory()
			if err != nil {
				return err
			}
			items, err := service.ListBackups(dir, filepath.Ext(src))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "FILE\tSIZE\tCREATED\tCHECKSUM")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", it.Path, it.SizeBytes, it.CreatedAt.Format(time.RFC3339), it.Checksum)
			}
			return nil
		})
	},
}

// restore works on the csv log only; a database cannot be replaced while
// it is open, so restoring one is done by copying the backup over --db.
var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the csv food log from a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		return withRuntime(func(rt *runtime) error {
			if rt.cfg.Storage.Backend != app.BackendCSV {
				return fmt.Errorf("restore is only available for the csv backend; copy %s over %s instead", restoreFile, rt.dbPath)
			}
			dst, err := rt.logPath()
			if err != nil {
				return err
			}
			if err := service.RestoreBackup(restoreFile, dst, restoreForce); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s\n", restoreFile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup output file path")
	backupCreateCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (used when --out is empty)")
	backupListCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: alongside the data file under backups/)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite the existing food log")
}
