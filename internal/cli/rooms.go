package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mull-dev/mull/internal/advice"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms [query]",
	Short: "List your advice chats",
	Long: `Lists chats kept on the advice service, newest first. An optional
query filters titles case-insensitively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := buildClient()
		if err != nil {
			return err
		}

		rooms, err := client.Rooms(context.Background())
		if err != nil {
			return fmt.Errorf("listing chats: %w", err)
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		rooms = advice.Search(query, rooms)

		if len(rooms) == 0 {
			if query != "" {
				fmt.Println("No chats match your search.")
			} else {
				fmt.Println("No chats yet.")
			}
			return nil
		}

		for _, room := range rooms {
			fmt.Printf("%8d  %s  %s\n", room.ID, room.CreatedAt.Format("2006-01-02 15:04"), room.Title)
		}
		return nil
	},
}
