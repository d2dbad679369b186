package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelchat/kestrel/internal/db"
)

// NewSeedCmd populates a fresh store with a demo channel.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty channel store with demo messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("db")
			user, _ := cmd.Flags().GetString("user")

			conn, err := db.Open(path)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Seed(conn, user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded demo channel at %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("user", "me", "local user id")
	return cmd
}
