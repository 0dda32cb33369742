package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

var errConnClosed = errors.New("connection closed")

type fakeConn struct {
	id       string
	messages []any
	fail     bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (that *fakeConn) ID() string {
	return that.id
}

func (that *fakeConn) Send(message any) error {
	if that.fail {
		return errConnClosed
	}

	that.messages = append(that.messages, message)

	return nil
}

func (that *fakeConn) reset() {
	that.messages = nil
}

type fakeReporter struct {
	started   []*entity.MatchStarted
	concluded []*entity.MatchResult
}

func (that *fakeReporter) MatchStarted(started *entity.MatchStarted) {
	that.started = append(that.started, started)
}

func (that *fakeReporter) MatchConcluded(result *entity.MatchResult) {
	that.concluded = append(that.concluded, result)
}

type fakeResultRepo struct {
	mu    sync.Mutex
	saved []*entity.MatchResult
	err   error
}

func (that *fakeResultRepo) Save(_ context.Context, result *entity.MatchResult) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.saved = append(that.saved, result)

	return that.err
}

type fakePublisher struct {
	mu        sync.Mutex
	started   []*entity.MatchStarted
	concluded []*entity.MatchResult
}

func (that *fakePublisher) PublishStarted(_ context.Context, started *entity.MatchStarted) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.started = append(that.started, started)

	return nil
}

func (that *fakePublisher) PublishConcluded(_ context.Context, result *entity.MatchResult) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.concluded = append(that.concluded, result)

	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int {
	return &v
}
