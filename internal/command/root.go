package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "kestrel"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Kestrel - a streaming chat timeline viewer",
		Long:          "Kestrel renders a live, scrollable chat timeline from a local channel store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("db", defaultStorePath(), "path to the channel store")
	cmd.Flags().String("user", "me", "local user id")
	cmd.Flags().String("channel", "general", "channel name")
	cmd.Flags().Int("last", 50, "initial number of messages to load")
	cmd.Flags().Bool("no-group", false, "disable grouping of consecutive same-author messages")
	cmd.Flags().Bool("thread", false, "thread view: no date separators, no scroll anchoring")

	cmd.AddCommand(NewSeedCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kestrel.db"
	}
	return home + "/.kestrel/channel.db"
}
