package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
)

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []payloads.ConsumptionLoggedPayload
	err       error
}

func (p *fakePublisher) PublishConsumptionLogged(_ context.Context, payload payloads.ConsumptionLoggedPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

type addCall struct {
	logID, userID, category string
	points                  int
}

type fakeLeaderboard struct {
	mu    sync.Mutex
	calls []addCall
	top   []domain.LeaderboardEntry
	err   error

	lastCategory string
	lastLimit    int
}

func (l *fakeLeaderboard) AddPoints(_ context.Context, logID, userID, category string, points int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	l.calls = append(l.calls, addCall{logID, userID, category, points})
	return true, nil
}

func (l *fakeLeaderboard) Top(_ context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastCategory, l.lastLimit = category, limit
	return l.top, l.err
}

type fakeArchive struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (a *fakeArchive) UploadFile(_ context.Context, key string, body []byte, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	a.bodies = append(a.bodies, body)
	return "http://archive/" + key, nil
}

type fakeFunctions struct {
	err           error
	search        []domain.MediaResult
	conv          *domain.ConversationalResult
	track         map[string]any
	notifications []domain.Notification
	posts         []domain.SocialPost
}

func (f *fakeFunctions) SearchMedia(context.Context, string, string) ([]domain.MediaResult, error) {
	return f.search, f.err
}

func (f *fakeFunctions) ConversationalSearch(context.Context, string, string) (*domain.ConversationalResult, error) {
	return f.conv, f.err
}

func (f *fakeFunctions) TrackMedia(context.Context, string, domain.TrackMediaRequest) (map[string]any, error) {
	return f.track, f.err
}

func (f *fakeFunctions) ListNotifications(context.Context, string, string) ([]domain.Notification, error) {
	return f.notifications, f.err
}

func (f *fakeFunctions) SocialFeed(context.Context, string) ([]domain.SocialPost, error) {
	return f.posts, f.err
}
