package phone

import "github.com/m-mizutani/aiphone/pkg/model"

// Fallback is the small fixed phone shown when generation fails: one record of every kind.
func Fallback(characterID model.CharacterID, characterName string) *model.PhoneContent {
	c := model.NewPhoneContent(characterID, characterName)

	c.Contacts = append(c.Contacts, &model.Contact{
		Name: "妈妈", Phone: "138****8888", Relation: "家人", Notes: "昨天晚上通话十分钟",
	})
	c.ChatSessions = append(c.ChatSessions, &model.ChatSession{
		Name:        "好友",
		LastMessage: "在吗？",
		Time:        "刚刚",
		Unread:      1,
		Messages: []*model.ChatMessage{
			{Sender: model.SenderOther, Content: "在吗？", Time: "10:00"},
			{Sender: model.SenderSelf, Content: "在的，怎么了？", Time: "10:01"},
		},
	})
	c.BrowserHistory = append(c.BrowserHistory, &model.BrowserVisit{
		Title: "今日新闻", URL: "https://news.example.com", Time: "今天", Snippet: "今天的热点新闻汇总",
	})
	c.ShoppingOrders = append(c.ShoppingOrders, &model.ShoppingOrder{
		Title: "日用品", Price: "99", Status: "已完成", OrderTime: "3天前", Reason: "家里的用完了", Thought: "普通的一天",
	})
	c.LedgerEntries = append(c.LedgerEntries, &model.LedgerEntry{
		Title: "便利店", Amount: "25.00", Type: model.LedgerExpense, Time: "今天", Reason: "买了早餐和一瓶水",
	})
	c.Photos = append(c.Photos, &model.Photo{
		Description: "窗外的风景", Location: "家里", Time: "今天",
	})
	c.Notes = append(c.Notes, &model.Note{
		Title: "待办事项", Content: "记得买菜", Time: "今天",
	})
	c.Playlist = append(c.Playlist, &model.Song{
		Title: "晴天", Artist: "周杰伦", Mood: "怀旧", Feeling: "想起以前的日子",
	})
	c.Footprints = append(c.Footprints, &model.Footprint{
		Location: "家", Address: "家里", Time: "08:00", Duration: "一整天", Activity: "休息", Mood: "平静", Action: "在沙发上看书", Companion: "独自",
	})
	c.ForumPosts = append(c.ForumPosts, &model.ForumPost{
		Title: "今天天气不错", Forum: "贴吧", Content: "分享一下今天的心情", Time: "今天", OtherComments: []*model.ForumComment{},
	})

	return c
}
