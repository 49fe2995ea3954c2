package messages

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"max.ks1230/income-planner/internal/logger"
	"max.ks1230/income-planner/internal/model/coordinator"
)

const (
	syncProblemMessage   = "Can't sync your plan right now, your edits are kept on this device"
	syncRecoveredMessage = "Your plan is in sync again"
)

type messageSender interface {
	SendMessage(text string, userID int64) error
}

type documentReader interface {
	Get(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error)
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message) (string, error)
}

type Service struct {
	tgClient messageSender
	handler  MessageHandler

	mu      sync.Mutex
	failing map[string]bool
}

func NewService(tgClient messageSender, sessions *coordinator.Manager, family documentReader, config config) *Service {
	return &Service{
		tgClient: tgClient,
		handler:  newHandler(sessions, family, config),
		failing:  make(map[string]bool),
	}
}

type Message struct {
	Text      string
	UserID    int64
	UserName  string
	FirstName string
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	err := s.handle(ctx, msg)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	resp, err := s.handler.HandleMessage(ctx, msg)
	if err != nil {
		_ = s.tgClient.SendMessage("Sorry, something wrong happened...\n"+resp, msg.UserID)
		return err
	}
	return s.tgClient.SendMessage(resp, msg.UserID)
}

// NotifyStatus tells the owner when syncing starts failing and when it recovers. Repeated
// failures are reported once.
func (s *Service) NotifyStatus(status coordinator.Status) {
	userID, ok := userIDFromOwner(status.OwnerID)
	if !ok {
		return
	}

	s.mu.Lock()
	wasFailing := s.failing[status.OwnerID]
	var text string
	switch {
	case status.State == coordinator.Error && !wasFailing:
		s.failing[status.OwnerID] = true
		text = syncProblemMessage
	case status.State == coordinator.Synced && wasFailing:
		delete(s.failing, status.OwnerID)
		text = syncRecoveredMessage
	case status.State == coordinator.Loading:
		delete(s.failing, status.OwnerID)
	}
	s.mu.Unlock()

	if text == "" {
		return
	}
	if err := s.tgClient.SendMessage(text, userID); err != nil {
		logger.Error("failed to notify about sync status", zap.Error(err), zap.Int64("userID", userID))
	}
}
