package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestHistoryIDCharacterID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	id := model.NewHistoryID("char-1", ts)
	gt.Equal(t, id, model.HistoryID("char-1_1700000000123"))
	gt.Equal(t, id.CharacterID(), model.CharacterID("char-1"))

	// Only the first separator counts.
	gt.Equal(t, model.HistoryID("a_b_123").CharacterID(), model.CharacterID("a"))
	gt.Equal(t, model.HistoryID("noseparator").CharacterID(), model.CharacterID("noseparator"))
}

func TestChatSessionParticipants(t *testing.T) {
	s := &model.ChatSession{
		Name: "宿舍群",
		Messages: []*model.ChatMessage{
			{Sender: "张三", Content: "吃什么"},
			{Sender: model.SenderSelf, Content: "火锅"},
			{Sender: "李四", Content: "好"},
			{Sender: "张三", Content: "走"},
		},
	}
	gt.True(t, s.IsGroup())
	gt.A(t, s.Participants()).Length(2)
	gt.Equal(t, s.Participants()[0], "张三")
	gt.Equal(t, s.Participants()[1], "李四")

	private := &model.ChatSession{Messages: []*model.ChatMessage{
		{Sender: model.SenderOther}, {Sender: model.SenderSelf},
	}}
	gt.False(t, private.IsGroup())
	gt.True(t, private.Messages[1].IsSelf())
}
