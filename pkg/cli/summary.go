package cli

import (
	"fmt"
	"io"

	"github.com/m-mizutani/aiphone/pkg/model"
)

func printSummary(w io.Writer, content *model.PhoneContent) {
	messages := 0
	for _, s := range content.ChatSessions {
		messages += len(s.Messages)
	}

	fmt.Fprintf(w, "%s (%s) generated at %s\n",
		content.CharacterName, content.CharacterID, content.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  contacts:  %d\n", len(content.Contacts))
	fmt.Fprintf(w, "  chats:     %d (%d messages)\n", len(content.ChatSessions), messages)
	fmt.Fprintf(w, "  browser:   %d\n", len(content.BrowserHistory))
	fmt.Fprintf(w, "  orders:    %d\n", len(content.ShoppingOrders))
	fmt.Fprintf(w, "  ledger:    %d\n", len(content.LedgerEntries))
	fmt.Fprintf(w, "  photos:    %d\n", len(content.Photos))
	fmt.Fprintf(w, "  notes:     %d\n", len(content.Notes))
	fmt.Fprintf(w, "  playlist:  %d\n", len(content.Playlist))
	fmt.Fprintf(w, "  footprint: %d\n", len(content.Footprints))
	fmt.Fprintf(w, "  forum:     %d\n", len(content.ForumPosts))
}

func printChats(w io.Writer, content *model.PhoneContent) {
	for _, s := range content.ChatSessions {
		fmt.Fprintf(w, "\n# %s (%s, unread %d)\n", s.Name, s.Time, s.Unread)
		for _, m := range s.Messages {
			fmt.Fprintf(w, "  [%s] %s: %s\n", m.Time, m.Sender, m.Content)
		}
	}
}
