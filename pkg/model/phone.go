package model

import "time"

type CharacterID string

// PhoneContent is everything fabricated for one character's phone in a single generation run.
type PhoneContent struct {
	CharacterID   CharacterID `json:"characterId"`
	CharacterName string      `json:"characterName"`
	GeneratedAt   time.Time   `json:"generatedAt"`

	Contacts       []*Contact       `json:"contacts"`
	ChatSessions   []*ChatSession   `json:"chatSessions"`
	BrowserHistory []*BrowserVisit  `json:"browserHistory"`
	ShoppingOrders []*ShoppingOrder `json:"shoppingOrders"`
	LedgerEntries  []*LedgerEntry   `json:"ledgerEntries"`
	Photos         []*Photo         `json:"photos"`
	Notes          []*Note          `json:"notes"`
	Playlist       []*Song          `json:"playlist"`
	Footprints     []*Footprint     `json:"footprints"`
	ForumPosts     []*ForumPost     `json:"forumPosts"`
}

// NewPhoneContent returns an empty aggregate stamped with the current time.
func NewPhoneContent(characterID CharacterID, characterName string) *PhoneContent {
	return &PhoneContent{
		CharacterID:    characterID,
		CharacterName:  characterName,
		GeneratedAt:    time.Now(),
		Contacts:       []*Contact{},
		ChatSessions:   []*ChatSession{},
		BrowserHistory: []*BrowserVisit{},
		ShoppingOrders: []*ShoppingOrder{},
		LedgerEntries:  []*LedgerEntry{},
		Photos:         []*Photo{},
		Notes:          []*Note{},
		Playlist:       []*Song{},
		Footprints:     []*Footprint{},
		ForumPosts:     []*ForumPost{},
	}
}

// IsEmpty reports whether no record of any kind was recovered.
func (p *PhoneContent) IsEmpty() bool {
	return len(p.Contacts) == 0 &&
		len(p.ChatSessions) == 0 &&
		len(p.BrowserHistory) == 0 &&
		len(p.ShoppingOrders) == 0 &&
		len(p.LedgerEntries) == 0 &&
		len(p.Photos) == 0 &&
		len(p.Notes) == 0 &&
		len(p.Playlist) == 0 &&
		len(p.Footprints) == 0 &&
		len(p.ForumPosts) == 0
}

type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
	Notes    string `json:"notes"`
}

const (
	SenderSelf  = "self"
	SenderOther = "other"
)

// ChatSession is one conversation, 1:1 or group. Messages belong to the session positionally.
type ChatSession struct {
	Name        string         `json:"name"`
	LastMessage string         `json:"lastMessage"`
	Time        string         `json:"time"`
	Unread      int            `json:"unread"`
	Messages    []*ChatMessage `json:"messages"`
}

// IsGroup reports whether any message was sent by a named member instead of self/other.
func (s *ChatSession) IsGroup() bool {
	return len(s.Participants()) > 0
}

// Participants returns the distinct named senders in order of first appearance.
func (s *ChatSession) Participants() []string {
	var names []string
	seen := map[string]struct{}{}
	for _, m := range s.Messages {
		if m.Sender == SenderSelf || m.Sender == SenderOther || m.Sender == "" {
			continue
		}
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		names = append(names, m.Sender)
	}
	return names
}

type ChatMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

func (m *ChatMessage) IsSelf() bool {
	return m.Sender == SenderSelf
}

type BrowserVisit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Time    string `json:"time"`
	Snippet string `json:"snippet"`
}

type ShoppingOrder struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Status    string `json:"status"`
	OrderTime string `json:"orderTime"`
	Reason    string `json:"reason"`
	Thought   string `json:"thought"`
}

type LedgerType string

const (
	LedgerIncome  LedgerType = "income"
	LedgerExpense LedgerType = "expense"
)

// LedgerEntry is a payment app bill line. Amount is kept exactly as the model wrote it.
type LedgerEntry struct {
	Title  string     `json:"title"`
	Amount string     `json:"amount"`
	Type   LedgerType `json:"type"`
	Time   string     `json:"time"`
	Reason string     `json:"reason"`
}

type Photo struct {
	Description string `json:"description"`
	Location    string `json:"location"`
	Time        string `json:"time"`
}

type Note struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

type Song struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Mood    string `json:"mood"`
	Feeling string `json:"feeling"`
}

// Footprint is one stop of the character's day.
type Footprint struct {
	Location  string `json:"location"`
	Address   string `json:"address"`
	Time      string `json:"time"`
	Duration  string `json:"duration"`
	Activity  string `json:"activity"`
	Mood      string `json:"mood"`
	Action    string `json:"action"`
	Companion string `json:"companion"`
}

type ForumPost struct {
	Title         string          `json:"title"`
	Forum         string          `json:"forum"`
	Content       string          `json:"content"`
	Time          string          `json:"time"`
	HasCommented  bool            `json:"hasCommented"`
	Comment       string          `json:"comment"`
	OtherComments []*ForumComment `json:"otherComments"`
}

type ForumComment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}
