// Package task runs phone generations in the background, at most one visible task per character.
//
// Starting a generation for a character that already has a task replaces that task (last writer
// wins). The replaced run is not cancelled: it finishes on its own and still sends its
// notification, but it can no longer change or remove the task that replaced it.
package task

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/aiphone/pkg/interfaces"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultCompletedDelay = 3 * time.Second
	DefaultFailedDelay    = 10 * time.Second

	notificationDuration = 5 * time.Second
)

// Generator produces a phone for a character. A non-nil error marks the run failed.
type Generator interface {
	Generate(ctx context.Context, characterID model.CharacterID, characterName string, forceNew bool) (*model.PhoneContent, error)
}

// Listener receives the full task list after every transition.
type Listener func(tasks []model.BackgroundTask)

type listenerEntry struct {
	id int
	fn Listener
}

type Manager struct {
	generator Generator
	notifier  interfaces.Notifier
	onClick   func(model.BackgroundTask)

	completedDelay time.Duration
	failedDelay    time.Duration

	mu         sync.Mutex
	tasks      map[model.CharacterID]*model.BackgroundTask
	listeners  []listenerEntry
	listenerID int

	// serializes listener calls so every listener sees snapshots in order
	emitMu sync.Mutex

	wg sync.WaitGroup
}

type Option func(*Manager)

// WithDelays sets how long completed and failed tasks stay visible.
func WithDelays(completed, failed time.Duration) Option {
	return func(m *Manager) {
		m.completedDelay = completed
		m.failedDelay = failed
	}
}

// WithClickHandler is attached as OnClick to every notification the manager sends.
func WithClickHandler(fn func(model.BackgroundTask)) Option {
	return func(m *Manager) {
		m.onClick = fn
	}
}

func New(generator Generator, notifier interfaces.Notifier, opts ...Option) *Manager {
	m := &Manager{
		generator:      generator,
		notifier:       notifier,
		completedDelay: DefaultCompletedDelay,
		failedDelay:    DefaultFailedDelay,
		tasks:          make(map[model.CharacterID]*model.BackgroundTask),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartGeneration records a generating task, notifies subscribers and returns immediately. The
// generation runs detached from ctx cancellation.
//
// Listeners must not call StartGeneration synchronously.
func (m *Manager) StartGeneration(ctx context.Context, characterID model.CharacterID, characterName string) model.BackgroundTask {
	t := &model.BackgroundTask{
		CharacterID:   characterID,
		CharacterName: characterName,
		RunID:         model.NewRunID(),
		Status:        model.TaskGenerating,
		StartTime:     time.Now(),
	}

	m.mu.Lock()
	if prev, ok := m.tasks[characterID]; ok && prev.Status == model.TaskGenerating {
		logging.From(ctx).Info("replace running generation",
			"character_id", characterID,
			"prev_run_id", prev.RunID,
			"run_id", t.RunID)
	}
	m.tasks[characterID] = t
	started := *t
	m.mu.Unlock()

	m.emit()

	runCtx := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(runCtx, t)
	}()

	return started
}

func (m *Manager) run(ctx context.Context, t *model.BackgroundTask) {
	logger := logging.From(ctx).With("character_id", t.CharacterID, "run_id", t.RunID)
	logger.Info("start phone generation")

	_, err := m.generate(ctx, t)
	if err != nil {
		logger.Error("phone generation failed", "error", err)
		snapshot := m.finish(t, model.TaskFailed, err.Error())
		m.notify(ctx, model.Notification{
			Title:    "Phone generation failed",
			Subtitle: t.CharacterName,
			Body:     fmt.Sprintf("%s: %s", t.CharacterName, err.Error()),
			Duration: notificationDuration,
		}, snapshot)
		m.scheduleRemoval(t.CharacterID, t.RunID, m.failedDelay)
		return
	}

	logger.Info("phone generation completed", "elapsed", time.Since(t.StartTime).String())
	snapshot := m.finish(t, model.TaskCompleted, "")
	m.notify(ctx, model.Notification{
		Title:    "Phone ready",
		Subtitle: t.CharacterName,
		Body:     fmt.Sprintf("%s's phone has been generated", t.CharacterName),
		Duration: notificationDuration,
	}, snapshot)
	m.scheduleRemoval(t.CharacterID, t.RunID, m.completedDelay)
}

func (m *Manager) generate(ctx context.Context, t *model.BackgroundTask) (content *model.PhoneContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("panic in phone generation", goerr.V("panic", fmt.Sprint(r)))
		}
	}()
	return m.generator.Generate(ctx, t.CharacterID, t.CharacterName, true)
}

// finish moves t to a terminal status. t may already have been replaced in the map; it is updated
// either way but only the current task is visible to subscribers.
func (m *Manager) finish(t *model.BackgroundTask, status model.TaskStatus, errText string) model.BackgroundTask {
	m.mu.Lock()
	t.Status = status
	t.Error = errText
	snapshot := *t
	m.mu.Unlock()

	m.emit()
	return snapshot
}

func (m *Manager) notify(ctx context.Context, n model.Notification, t model.BackgroundTask) {
	if m.notifier == nil {
		return
	}
	if m.onClick != nil {
		onClick := m.onClick
		n.OnClick = func() { onClick(t) }
	}
	m.notifier.Notify(ctx, n)
}

func (m *Manager) scheduleRemoval(characterID model.CharacterID, runID model.RunID, delay time.Duration) {
	time.AfterFunc(delay, func() {
		m.mu.Lock()
		cur, ok := m.tasks[characterID]
		removed := ok && cur.RunID == runID
		if removed {
			delete(m.tasks, characterID)
		}
		m.mu.Unlock()

		if removed {
			m.emit()
		}
	})
}

// Tasks returns a copy of all visible tasks ordered by start time.
func (m *Manager) Tasks() []model.BackgroundTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Task returns the character's task, if any.
func (m *Manager) Task(characterID model.CharacterID) (model.BackgroundTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[characterID]
	if !ok {
		return model.BackgroundTask{}, false
	}
	return *t, true
}

// HasGeneratingTask reports whether any task is still generating.
func (m *Manager) HasGeneratingTask() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tasks {
		if t.Status == model.TaskGenerating {
			return true
		}
	}
	return false
}

// Subscribe registers fn for every transition. The returned function unregisters it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	m.listenerID++
	id := m.listenerID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.listeners = slices.DeleteFunc(m.listeners, func(e listenerEntry) bool {
				return e.id == id
			})
		})
	}
}

// Wait blocks until every started generation has finished. Removal timers are not waited for.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) emit() {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	tasks := m.snapshot()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.fn(slices.Clone(tasks))
	}
}

// snapshot must be called with mu held.
func (m *Manager) snapshot() []model.BackgroundTask {
	tasks := make([]model.BackgroundTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	slices.SortFunc(tasks, func(a, b model.BackgroundTask) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.CharacterID, b.CharacterID)
	})
	return tasks
}
