package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

// newRoomsCommand 创建 rooms 子命令
func newRoomsCommand() *cobra.Command {
	opts := NewChatOptions()

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List route rooms and special rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.LoadConfigFile(cmd.Flags()); err != nil {
				return err
			}
			routes := opts.Routes
			if len(routes) == 0 {
				routes = chatv1.DefaultRoutes()
			}
			return printRooms(cmd.OutOrStdout(), routes)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", opts.ConfigFile, "Path to a YAML config file")

	return cmd
}

// printRooms 输出路线表和特殊房间
func printRooms(w io.Writer, routes []chatv1.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ROOM\tDISPLAY NAME\tTRANSPORT")
	for _, r := range routes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s (%s)\n", r.Room, r.Room.DisplayName(), r.Transport, r.Transport.Label())
	}
	for _, room := range []chatv1.RoomID{chatv1.PedPong, chatv1.DuckPond} {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t-\n", room, room.DisplayName())
	}
	return tw.Flush()
}
