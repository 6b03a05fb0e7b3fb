package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/haul/internal/cli"
	"github.com/Veraticus/haul/internal/common"
	"github.com/Veraticus/haul/internal/export"
	"github.com/Veraticus/haul/internal/storage"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Aliases: []string{"backups"},
		Short:   "Save and inspect full snapshots of your records",
		Long: `Backups are JSON snapshots of every collection, written to the backup
directory (backup.dir, default a "backups" folder next to the database).`,
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupListCmd())
	cmd.AddCommand(backupShowCmd())
	cmd.AddCommand(backupDeleteCmd())
	cmd.AddCommand(backupImportCmd())

	return cmd
}

func (a *app) backups() (*storage.BackupManager, error) {
	return a.db.NewBackupManager(a.cfg.BackupDir)
}

func backupCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a snapshot of every record",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			tag, _ := cmd.Flags().GetString("tag")
			description, _ := cmd.Flags().GetString("description")

			bm, err := a.backups()
			if err != nil {
				return err
			}

			data := a.store.Dataset()
			user := export.User{ID: a.cfg.User.ID, Name: a.cfg.User.Name, Email: a.cfg.User.Email}

			var buf bytes.Buffer
			if err := export.JSON(&buf, export.NewSnapshot(user, data, time.Now())); err != nil {
				return err
			}

			info, err := bm.Create(cmd.Context(), tag, description, buf.Bytes(), data.Counts())
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s at %s", info.ID, info.Path)))
			return err
		}),
	}
	cmd.Flags().StringP("tag", "t", "", "Backup name (default backup-<timestamp>)")
	cmd.Flags().StringP("description", "d", "", "What this backup is for")
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List backups, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			bm, err := a.backups()
			if err != nil {
				return err
			}
			backups, err := bm.List(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderBackups(cmd.OutOrStdout(), backups)
		}),
	}
}

func backupShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <tag>",
		Short: "Show what a backup holds",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			bm, err := a.backups()
			if err != nil {
				return err
			}

			raw, err := bm.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if r, _ := cmd.Flags().GetBool("raw"); r {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}

			info, err := bm.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			snap, err := export.ParseSnapshot(raw)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Created:  %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(&b, "Version:  %s\n", snap.Version)
			fmt.Fprintf(&b, "User:     %s\n", snap.User.Name)
			fmt.Fprintf(&b, "File:     %s\n", info.Path)
			if info.Description != "" {
				fmt.Fprintf(&b, "Note:     %s\n", info.Description)
			}
			b.WriteString("\n")

			counts := snap.Dataset().Counts()
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "%-18s %d\n", k, counts[k])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.FolderIcon+" "+info.ID, strings.TrimRight(b.String(), "\n")))
			return err
		}),
	}
	cmd.Flags().Bool("raw", false, "Print the backup document itself")
	return cmd
}

func backupDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <tag>",
		Aliases: []string{"rm"},
		Short:   "Delete a backup",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			bm, err := a.backups()
			if err != nil {
				return err
			}
			if _, err := bm.Info(cmd.Context(), args[0]); err != nil {
				return err
			}

			ok, err := confirmDelete(cmd, "Delete backup "+args[0]+"?")
			if err != nil || !ok {
				return err
			}
			if err := bm.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted backup "+args[0]))
			return err
		}),
	}
	addYesFlag(cmd)
	return cmd
}

func backupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <tag>",
		Short: "Restore records from a backup (not supported yet)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			bm, err := a.backups()
			if err != nil {
				return err
			}
			raw, err := bm.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := export.ParseSnapshot(raw); err != nil {
				return err
			}
			return common.NewUserError("backup "+args[0]+" is readable but cannot be restored", export.ErrImportUnsupported)
		}),
	}
}
