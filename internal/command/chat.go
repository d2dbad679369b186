package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelchat/kestrel/internal/chat"
	"github.com/kestrelchat/kestrel/internal/db"
	"github.com/kestrelchat/kestrel/internal/types"
)

func runChat(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("db")
	user, _ := cmd.Flags().GetString("user")
	channel, _ := cmd.Flags().GetString("channel")
	last, _ := cmd.Flags().GetInt("last")
	noGroup, _ := cmd.Flags().GetBool("no-group")
	thread, _ := cmd.Flags().GetBool("thread")

	conn, err := db.Open(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	count, err := db.CountMessages(conn)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("store %s is empty; run `%s seed` first", path, AppName)
	}

	return chat.Run(chat.Options{
		DB:            conn,
		Channel:       types.Channel{ID: channel, Name: channel},
		LocalUser:     types.User{ID: user, Name: user},
		Last:          last,
		NoGroupByUser: noGroup,
		ThreadView:    thread,
	})
}
