package adapter

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
)

// LogNotifier writes notifications to the context logger.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n model.Notification) {
	logging.From(ctx).Info("notification",
		"title", n.Title,
		"subtitle", n.Subtitle,
		"body", n.Body,
	)
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (x *WriterNotifier) Notify(ctx context.Context, n model.Notification) {
	x.mu.Lock()
	defer x.mu.Unlock()
	fmt.Fprintf(x.w, "[%s] %s\n", n.Title, n.Body)
}

// MultiNotifier fans a notification out to every sink.
type MultiNotifier []interfaces.Notifier

func (m MultiNotifier) Notify(ctx context.Context, n model.Notification) {
	for _, x := range m {
		x.Notify(ctx, n)
	}
}

var (
	_ interfaces.Notifier  = LogNotifier{}
	_ interfaces.Notifier  = (*WriterNotifier)(nil)
	_ interfaces.Notifier  = MultiNotifier{}
	_ interfaces.Transport = (*Gemini)(nil)
	_ interfaces.Transport = (*Claude)(nil)
)
