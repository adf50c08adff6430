// Package cli contains the operator commands. They act on the same sqlite
// store the bot runs against, so configuration can be inspected and repaired
// without going through chat commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/wire"
)

// ConfigCmd returns the server configuration command tree.
func ConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit per-server queue configuration",
	}

	configCmd.AddCommand(configShowCmd())
	configCmd.AddCommand(configSetArchiveCmd())
	configCmd.AddCommand(configSetQueuesCmd())
	configCmd.AddCommand(configSetRolesCmd())
	configCmd.AddCommand(configResetCmd())

	return configCmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a server's configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, _ := cmd.Flags().GetString("server")

			record, err := wire.ConfigRepository().Get(context.Background(), serverID)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			unset := color.New(color.FgYellow).Sprint("(not set)")
			archive := record.ArchiveChannelID
			if archive == "" {
				archive = unset
			}
			queues := strings.Join(record.QueueChannelIDs, " ")
			if queues == "" {
				queues = unset
			}
			managerRoles := strings.Join(record.ManagerRoleIDs, " ")
			if managerRoles == "" {
				managerRoles = unset
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Server\t%s\n", record.ServerID)
			fmt.Fprintf(w, "Archive channel\t%s\n", archive)
			fmt.Fprintf(w, "Queue channels\t%s\n", queues)
			fmt.Fprintf(w, "Manager roles\t%s\n", managerRoles)
			return w.Flush()
		},
	}
	cmd.Flags().String("server", "", "Server ID")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}

func configSetArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-archive [channel-id]",
		Short: "Set the archive channel for a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, _ := cmd.Flags().GetString("server")

			if err := wire.ConfigRepository().SetArchiveChannel(context.Background(), serverID, args[0]); err != nil {
				return fmt.Errorf("failed to set archive channel: %w", err)
			}
			wire.ConfigCache().Invalidate(serverID)

			fmt.Printf("✓ Archive channel for %s set to %s\n", serverID, args[0])
			return nil
		},
	}
	cmd.Flags().String("server", "", "Server ID")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}

func configSetQueuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-queues [channel-id...]",
		Short: "Replace the queue channel set for a server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, _ := cmd.Flags().GetString("server")

			if err := wire.ConfigRepository().SetQueueChannels(context.Background(), serverID, args); err != nil {
				return fmt.Errorf("failed to set queue channels: %w", err)
			}
			wire.ConfigCache().Invalidate(serverID)

			fmt.Printf("✓ Queue channels for %s: %s\n", serverID, strings.Join(args, ", "))
			return nil
		},
	}
	cmd.Flags().String("server", "", "Server ID")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}

func configSetRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-roles [role-id...]",
		Short: "Replace the manager role set for a server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, _ := cmd.Flags().GetString("server")

			if err := wire.ConfigRepository().SetManagerRoles(context.Background(), serverID, args); err != nil {
				return fmt.Errorf("failed to set manager roles: %w", err)
			}
			wire.ConfigCache().Invalidate(serverID)

			fmt.Printf("✓ Manager roles for %s: %s\n", serverID, strings.Join(args, ", "))
			return nil
		},
	}
	cmd.Flags().String("server", "", "Server ID")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}

func configResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a server's configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, _ := cmd.Flags().GetString("server")

			if err := wire.ConfigRepository().Reset(context.Background(), serverID); err != nil {
				return fmt.Errorf("failed to reset configuration: %w", err)
			}
			wire.ConfigCache().Invalidate(serverID)

			fmt.Printf("✓ Configuration for %s reset\n", serverID)
			return nil
		},
	}
	cmd.Flags().String("server", "", "Server ID")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}
