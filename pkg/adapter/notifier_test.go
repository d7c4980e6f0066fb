package adapter_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/aiphone/pkg/adapter"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestNotifiers(t *testing.T) {
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	ctx := logging.With(context.Background(), logging.New("info", logs))

	n := adapter.MultiNotifier{
		adapter.NewWriterNotifier(out),
		adapter.LogNotifier{},
	}
	n.Notify(ctx, model.Notification{
		Title:    "Phone ready",
		Subtitle: "小雨",
		Body:     "小雨's phone has been generated",
	})

	gt.Equal(t, out.String(), "[Phone ready] 小雨's phone has been generated\n")
	gt.S(t, logs.String()).Contains("notification")
	gt.S(t, logs.String()).Contains("Phone ready")
}
