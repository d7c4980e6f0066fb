// Package parser turns a model response written in the phone mini-format into a PhoneContent.
//
// The format is line oriented. "===label" lines open a section, record lines carry fields joined by
// "|||". In the chat section a record line opens a session and "对话：" lines append messages to it.
// Parsing never fails: malformed lines are dropped and short records are padded with empty fields.
package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
)

const (
	Delimiter = "|||"
)

var (
	messagePrefixes = []string{"对话：", "对话:"}

	// Prompt illustrations that sometimes leak into the response.
	illustrativePrefixes = []string{"示例", "❌", "✅"}
)

// state is the scanner position: the open section and, inside chats, the open session.
type state struct {
	section section
	session *model.ChatSession
}

// Parse converts raw into a PhoneContent. It never panics; anything it cannot read is dropped.
func Parse(raw string, characterID model.CharacterID, characterName string) (content *model.PhoneContent) {
	content = model.NewPhoneContent(characterID, characterName)
	scan(content, raw)
	return content
}

// scan feeds raw into content line by line. A panic stops the scan and keeps what was read so far.
func scan(content *model.PhoneContent, raw string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Default().Warn("recovered from panic while parsing phone content", "panic", fmt.Sprint(r))
		}
	}()

	st := &state{}
	for _, line := range strings.Split(raw, "\n") {
		st.feed(content, line)
	}
}

func (st *state) feed(content *model.PhoneContent, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	if sec, ok := parseMarker(line); ok {
		st.section = sec
		st.session = nil
		return
	}

	if isIllustrative(line) {
		// an illustrative session header still closes the open session so its messages become orphans
		if st.section == sectionChats && strings.Contains(line, Delimiter) && !containsMessagePrefix(line) {
			st.session = nil
		}
		return
	}

	switch st.section {
	case sectionNone, sectionIgnored:
		return
	case sectionChats:
		st.feedChat(content, line)
		return
	}

	if !strings.Contains(line, Delimiter) {
		return
	}
	f := splitFields(line)

	switch st.section {
	case sectionContacts:
		content.Contacts = append(content.Contacts, &model.Contact{
			Name:     f.at(0),
			Phone:    f.at(1),
			Relation: f.at(2),
			Notes:    f.at(3),
		})

	case sectionBrowser:
		content.BrowserHistory = append(content.BrowserHistory, &model.BrowserVisit{
			Title:   f.at(0),
			URL:     f.at(1),
			Time:    f.at(2),
			Snippet: f.at(3),
		})

	case sectionShopping:
		content.ShoppingOrders = append(content.ShoppingOrders, &model.ShoppingOrder{
			Title:     f.at(0),
			Price:     f.at(1),
			Status:    f.at(2),
			OrderTime: f.at(3),
			Reason:    f.at(4),
			Thought:   f.at(5),
		})

	case sectionLedger:
		content.LedgerEntries = append(content.LedgerEntries, &model.LedgerEntry{
			Title:  f.at(0),
			Amount: f.at(1),
			Type:   ledgerType(f.at(2)),
			Time:   f.at(3),
			Reason: f.at(4),
		})

	case sectionPhotos:
		content.Photos = append(content.Photos, &model.Photo{
			Description: f.at(0),
			Location:    f.at(1),
			Time:        f.at(2),
		})

	case sectionNotes:
		content.Notes = append(content.Notes, &model.Note{
			Title:   f.at(0),
			Content: f.at(1),
			Time:    f.at(2),
		})

	case sectionPlaylist:
		content.Playlist = append(content.Playlist, &model.Song{
			Title:   f.at(0),
			Artist:  f.at(1),
			Mood:    f.at(2),
			Feeling: f.at(3),
		})

	case sectionFootprints:
		content.Footprints = append(content.Footprints, &model.Footprint{
			Location:  f.at(0),
			Address:   f.at(1),
			Time:      f.at(2),
			Duration:  f.at(3),
			Activity:  f.at(4),
			Mood:      f.at(5),
			Action:    f.at(6),
			Companion: f.at(7),
		})

	case sectionForum:
		content.ForumPosts = append(content.ForumPosts, &model.ForumPost{
			Title:         f.at(0),
			Forum:         f.at(1),
			Content:       f.at(2),
			Time:          f.at(3),
			HasCommented:  isYes(f.at(4)),
			Comment:       f.at(5),
			OtherComments: forumComments(f.from(6)),
		})
	}
}

// feedChat handles one line of the chat section. A message with no open session is dropped, and
// senders are kept exactly as written even if they do not match the session.
func (st *state) feedChat(content *model.PhoneContent, line string) {
	if body, ok := cutMessagePrefix(line); ok {
		if st.session == nil || !strings.Contains(body, Delimiter) {
			return
		}
		f := splitFields(body)
		st.session.Messages = append(st.session.Messages, &model.ChatMessage{
			Sender:  f.at(0),
			Content: f.at(1),
			Time:    f.at(2),
		})
		return
	}

	if !strings.Contains(line, Delimiter) {
		return
	}
	f := splitFields(line)
	st.session = &model.ChatSession{
		Name:        f.at(0),
		LastMessage: f.at(1),
		Time:        f.at(2),
		Unread:      leadingInt(f.at(3)),
		Messages:    []*model.ChatMessage{},
	}
	content.ChatSessions = append(content.ChatSessions, st.session)
}

type fields []string

func splitFields(line string) fields {
	parts := strings.Split(line, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (f fields) at(i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return f[i]
}

func (f fields) from(i int) []string {
	if i >= len(f) {
		return nil
	}
	return f[i:]
}

func isIllustrative(line string) bool {
	for _, p := range illustrativePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func containsMessagePrefix(line string) bool {
	for _, p := range messagePrefixes {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

func cutMessagePrefix(line string) (string, bool) {
	for _, p := range messagePrefixes {
		if body, ok := strings.CutPrefix(line, p); ok {
			return strings.TrimSpace(body), true
		}
	}
	return "", false
}

func ledgerType(s string) model.LedgerType {
	if strings.Contains(s, "收入") || strings.EqualFold(s, string(model.LedgerIncome)) {
		return model.LedgerIncome
	}
	return model.LedgerExpense
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "是", "yes", "true", "y":
		return true
	}
	return false
}

// leadingInt reads the digits at the start of s ("3", "3条"); anything else is 0.
func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			break
		}
		if n > 99999 {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// forumComments reads "author:content" floors. A floor without a colon has no author.
func forumComments(parts []string) []*model.ForumComment {
	comments := []*model.ForumComment{}
	for _, p := range parts {
		if p == "" {
			continue
		}
		idx := strings.IndexAny(p, ":：")
		if idx < 0 {
			comments = append(comments, &model.ForumComment{Content: p})
			continue
		}
		sep := ":"
		if strings.HasPrefix(p[idx:], "：") {
			sep = "："
		}
		comments = append(comments, &model.ForumComment{
			Author:  strings.TrimSpace(p[:idx]),
			Content: strings.TrimSpace(p[idx+len(sep):]),
		})
	}
	return comments
}
