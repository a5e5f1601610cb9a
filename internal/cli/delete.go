package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mull-dev/mull/internal/log"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <room-id>",
	Short: "Delete an advice chat",
	Long: `Deletes a chat from the advice service. Asks for confirmation unless
--yes is given; deletion cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid room id %q", args[0])
		}

		if !deleteYes {
			fmt.Printf("Delete chat %d? This cannot be undone. [y/N] ", roomID)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		_, client, err := buildClient()
		if err != nil {
			return err
		}

		if err := client.DeleteRoom(context.Background(), roomID); err != nil {
			return fmt.Errorf("deleting chat %d: %w", roomID, err)
		}

		if logger, err := buildLogger(); err == nil {
			_ = logger.Append(log.LogEvent{Event: log.EventRoomDeleted, RoomID: roomID})
		}

		fmt.Printf("Deleted chat %d.\n", roomID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
