// Package commands provides Bubble Tea commands for the asynchronous
// remote-service operations. Each command performs exactly one call and
// returns a typed message; errors come back inside the message so the
// orchestrator can classify them instead of catching raw failures.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mull-dev/mull/internal/api"
	"github.com/mull-dev/mull/internal/toast"
	"github.com/mull-dev/mull/internal/tui"
)

// ListRooms fetches the room list. Always a fresh fetch; the browser never
// reuses a previous open's list.
func ListRooms(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		rooms, err := client.Rooms(context.Background())
		return tui.RoomsListedMsg{Rooms: rooms, Err: err}
	}
}

// DeleteRoom performs the confirmed delete for a room.
func DeleteRoom(client *api.Client, roomID int64) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteRoom(context.Background(), roomID)
		return tui.RoomDeletedMsg{RoomID: roomID, Err: err}
	}
}

// ListenToast waits for the next toast dismissal so the view re-renders
// when the toast disappears on its own. Re-issue after every receipt. A
// receive from a closed channel means the notifier was torn down; the
// listener goes quiet instead of re-arming.
func ListenToast(events <-chan toast.ExpiredEvent) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return tui.ToastExpiredMsg{}
	}
}
