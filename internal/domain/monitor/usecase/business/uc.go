// Package business contains business logic for the monitor domain
package business

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/conversation"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/metrics"
)

// UseCase contains business logic for monitor operations
type UseCase struct {
	store     deps.MonitorStore
	publisher deps.EventPublisher
	journal   deps.FireJournal
	sessions  *conversation.Sessions
	rules     conversation.Rules
	cfg       *config.MonitorConfig
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	mu         sync.RWMutex
	messengers map[int64]deps.Messenger

	newID func() string
	now   func() time.Time
}

// NewUseCase creates a new UseCase instance.
// Messengers are attached per bot with RegisterMessenger once bots are created.
func NewUseCase(
	store deps.MonitorStore,
	publisher deps.EventPublisher,
	journal deps.FireJournal,
	cfg *config.MonitorConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	uc := &UseCase{
		store:      store,
		publisher:  publisher,
		journal:    journal,
		sessions:   conversation.NewSessions(),
		cfg:        cfg,
		metrics:    m,
		logger:     logger.With().Str("component", "monitor_usecase").Logger(),
		messengers: make(map[int64]deps.Messenger),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	uc.rules = conversation.Rules{
		SourceChannelID: cfg.SourceChannelID,
		Emojis:          cfg.Emojis,
		Now:             func() time.Time { return uc.now() },
	}
	return uc
}

// RegisterMessenger attaches the outbound side of one bot identity, keyed by its own bot id
func (uc *UseCase) RegisterMessenger(ctx context.Context, m deps.Messenger) error {
	identity, err := m.Self(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve messenger identity: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.messengers[identity.ID] = m
	uc.logger.Debug().Int64("bot_id", identity.ID).Str("bot_username", identity.Username).Msg("Messenger registered")
	return nil
}

// messenger returns the messenger of the first registered bot in botIDs
func (uc *UseCase) messenger(botIDs ...int64) (deps.Messenger, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for _, id := range botIDs {
		if m, ok := uc.messengers[id]; ok {
			return m, true
		}
	}
	return nil, false
}

// authorize enforces the optional single-operator restriction
func (uc *UseCase) authorize(p dto.Principal) error {
	if uc.cfg.OwnerID != 0 && p.UserID != uc.cfg.OwnerID {
		return monerrors.ErrNotAuthorized
	}
	return nil
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(_ context.Context, p dto.Principal) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", p.UserID).
		Int64("bot_id", p.BotID).
		Msg("User started bot")

	message := `👋 <b>Hi!</b>
Forward a channel post ➜ pick reactions ➜ set a trigger count ➜ I will watch it.

/monitors - your active monitors
/help - show help`

	return &dto.CommandResponse{Message: message}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(_ context.Context) (*dto.CommandResponse, error) {
	message := fmt.Sprintf(`📚 <b>Help</b>

<b>Start monitoring:</b>
Forward a post from the monitored channel, pick the reactions to track, then choose how many reactions should trigger a notification.

<b>Commands:</b>
%s - list your active monitors
%s &lt;chatId:messageId&gt; - stop a monitor
%s - stop the setup in progress
%s - recently fired monitors`,
		consts.CommandMonitors.Slash(),
		consts.CommandCancel.Slash(),
		consts.CommandCancel.Slash(),
		consts.CommandHistory.Slash(),
	)

	return &dto.CommandResponse{Message: message}, nil
}

// HandleForward starts a setup conversation from a forwarded post
func (uc *UseCase) HandleForward(ctx context.Context, in dto.Interaction, post dto.ForwardedPost) error {
	if err := uc.authorize(in.Principal); err != nil {
		return err
	}

	ev := conversation.Forward{
		Principal:       in.Principal,
		FromChannel:     post.FromChannel,
		OriginChatID:    post.OriginChatID,
		OriginMessageID: post.OriginMessageID,
	}

	if post.FromChannel {
		key := entities.Key{ChatID: post.OriginChatID, MessageID: post.OriginMessageID}
		_, err := uc.store.Get(ctx, key)
		switch {
		case err == nil:
			ev.AlreadyMonitored = true
		case !errors.Is(err, monerrors.ErrMonitorNotFound):
			return fmt.Errorf("failed to look up monitor %s: %w", key, err)
		}
	}

	uc.logger.Info().
		Int64("user_id", in.Principal.UserID).
		Int64("origin_chat_id", post.OriginChatID).
		Int("origin_message_id", post.OriginMessageID).
		Msg("Processing forwarded post")

	return uc.apply(ctx, in, ev)
}

// HandleAction feeds a button press or typed input into the setup conversation
func (uc *UseCase) HandleAction(ctx context.Context, in dto.Interaction, ev conversation.Event) error {
	if err := uc.authorize(in.Principal); err != nil {
		return err
	}
	return uc.apply(ctx, in, ev)
}

func (uc *UseCase) apply(ctx context.Context, in dto.Interaction, ev conversation.Event) error {
	next, effects := uc.sessions.Apply(in.Principal, uc.rules, ev)
	uc.metrics.UpdateDrafts(uc.sessions.Len())

	uc.logger.Debug().
		Int64("user_id", in.Principal.UserID).
		Str("event", fmt.Sprintf("%T", ev)).
		Str("stage", next.Stage.String()).
		Int("effects", len(effects)).
		Msg("Conversation transition")

	return uc.execute(ctx, in, effects)
}

// execute performs the effects requested by a transition in order
func (uc *UseCase) execute(ctx context.Context, in dto.Interaction, effects []conversation.Effect) error {
	sender, ok := uc.messenger(in.Principal.BotID)
	if !ok {
		return monerrors.ErrMessengerMissing
	}

	var notice string
	for _, eff := range effects {
		switch e := eff.(type) {
		case conversation.Reply:
			uc.recordRejection(e.Text)
			if _, err := sender.SendMessage(ctx, in.ChatID, e.Text, dto.MessageOptions{Keyboard: e.Keyboard}); err != nil {
				return fmt.Errorf("failed to send reply: %w", err)
			}
		case conversation.EditPrompt:
			if err := uc.respond(ctx, sender, in, e.Text, e.Keyboard); err != nil {
				return err
			}
		case conversation.Notice:
			uc.recordRejection(e.Text)
			notice = e.Text
		case conversation.Activate:
			if err := uc.activate(ctx, sender, in, e.Monitor); err != nil {
				return err
			}
		}
	}

	if in.CallbackID != "" {
		uc.bestEffort(ctx, "answer_callback", func(ctx context.Context) error {
			return sender.AnswerCallback(ctx, in.CallbackID, notice)
		})
	} else if notice != "" {
		if _, err := sender.SendMessage(ctx, in.ChatID, notice, dto.MessageOptions{}); err != nil {
			return fmt.Errorf("failed to send notice: %w", err)
		}
	}

	return nil
}

// respond edits the wizard message, or sends a new one for typed input
func (uc *UseCase) respond(ctx context.Context, sender deps.Messenger, in dto.Interaction, text string, kb dto.Keyboard) error {
	opts := dto.MessageOptions{Keyboard: kb}
	if in.PromptMessageID != 0 {
		if err := sender.EditMessage(ctx, in.ChatID, in.PromptMessageID, text, opts); err != nil {
			return fmt.Errorf("failed to edit prompt: %w", err)
		}
		return nil
	}
	if _, err := sender.SendMessage(ctx, in.ChatID, text, opts); err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}
	return nil
}

// activate promotes a confirmed draft into the store
func (uc *UseCase) activate(ctx context.Context, sender deps.Messenger, in dto.Interaction, m *entities.Monitor) error {
	if !m.Ready() {
		return monerrors.ErrMonitorIncomplete
	}

	m.ID = uc.newID()
	m.ActivatedAt = uc.now()

	if err := uc.store.Insert(ctx, m); err != nil {
		if errors.Is(err, monerrors.ErrAlreadyMonitored) {
			uc.metrics.RecordRejection("already_monitored")
			return uc.respond(ctx, sender, in, conversation.AlreadyMonitoredText(m.Key), dto.Keyboard{})
		}
		return fmt.Errorf("failed to store monitor: %w", err)
	}

	uc.logger.Info().
		Str("monitor_id", m.ID).
		Str("key", m.Key.String()).
		Int64("owner", m.Owner).
		Strs("reactions", m.Reactions).
		Int("threshold", m.Threshold).
		Msg("Monitor activated")

	uc.bestEffort(ctx, "set_reaction", func(ctx context.Context) error {
		return sender.SetReaction(ctx, m.Key.ChatID, m.Key.MessageID, m.Reactions[0], true)
	})

	uc.metrics.RecordActivation()
	uc.refreshActiveGauge(ctx)
	uc.publish(ctx, consts.EventMonitorActivated, m, "", 0)

	return uc.respond(ctx, sender, in, conversation.ActivatedText(m), dto.Keyboard{})
}

// HandleListMonitors lists the monitors owned by the principal
func (uc *UseCase) HandleListMonitors(ctx context.Context, p dto.Principal) (*dto.MonitorListResponse, error) {
	if err := uc.authorize(p); err != nil {
		return nil, err
	}

	monitors, err := uc.store.ListByOwner(ctx, p.UserID)
	if err != nil {
		uc.logger.Error().Err(err).Int64("user_id", p.UserID).Msg("Failed to list monitors")
		return nil, err
	}

	items := make([]dto.MonitorItem, len(monitors))
	for i, m := range monitors {
		items[i] = dto.MonitorItem{
			Key:        m.Key.String(),
			Reactions:  m.Reactions,
			Threshold:  m.Threshold,
			LastCounts: m.LastCounts,
		}
	}

	return &dto.MonitorListResponse{Monitors: items}, nil
}

// HandleCancelMonitor removes a monitor on behalf of its owner.
// Returns ErrMonitorNotFound or ErrNotMonitorOwner without changing state.
func (uc *UseCase) HandleCancelMonitor(ctx context.Context, req *dto.CancelMonitorRequest) (*entities.Monitor, error) {
	if err := uc.authorize(req.Principal); err != nil {
		return nil, err
	}

	key, err := entities.ParseKey(req.Key)
	if err != nil {
		return nil, monerrors.ErrInvalidMonitorKey
	}

	removed, err := uc.store.RemoveIfOwner(ctx, key, req.Principal.UserID)
	if err != nil {
		uc.logger.Info().
			Err(err).
			Str("key", key.String()).
			Int64("user_id", req.Principal.UserID).
			Msg("Monitor cancellation refused")
		return nil, err
	}

	removed.Status = entities.StatusCancelled
	uc.logger.Info().
		Str("monitor_id", removed.ID).
		Str("key", key.String()).
		Msg("Monitor cancelled by owner")

	uc.metrics.RecordCancellation()
	uc.refreshActiveGauge(ctx)
	uc.publish(ctx, consts.EventMonitorCancelled, removed, "", 0)

	return removed, nil
}

// HandleHistory returns the latest fires of the principal's monitors
func (uc *UseCase) HandleHistory(ctx context.Context, p dto.Principal) ([]dto.FireItem, error) {
	if err := uc.authorize(p); err != nil {
		return nil, err
	}

	records, err := uc.journal.ListByOwner(ctx, p.UserID, consts.HistoryLimit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FireItem, len(records))
	for i, r := range records {
		items[i] = dto.FireItem{
			Key:       entities.Key{ChatID: r.ChatID, MessageID: r.MessageID}.String(),
			Emoji:     r.Emoji,
			Count:     r.Count,
			Threshold: r.Threshold,
			FiredAt:   r.FiredAt,
		}
	}
	return items, nil
}

func (uc *UseCase) refreshActiveGauge(ctx context.Context) {
	n, err := uc.store.Count(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to count monitors")
		return
	}
	uc.metrics.UpdateActiveMonitors(n)
}

func (uc *UseCase) publish(ctx context.Context, eventType string, m *entities.Monitor, emoji string, count int) {
	event := &dto.MonitorEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		MonitorID:  m.ID,
		Owner:      m.Owner,
		ChatID:     m.Key.ChatID,
		MessageID:  m.Key.MessageID,
		Reactions:  m.Reactions,
		Threshold:  m.Threshold,
		Emoji:      emoji,
		Count:      count,
		OccurredAt: uc.now().UTC().Format(time.RFC3339),
	}

	uc.bestEffort(ctx, "publish_event", func(ctx context.Context) error {
		return uc.publisher.Publish(ctx, event)
	})
}

var rejectionReasons = map[string]string{
	conversation.MsgNotChannelPost:   "not_channel_post",
	conversation.MsgWrongChannel:     "wrong_channel",
	conversation.MsgNothingSelected:  "empty_selection",
	conversation.MsgInvalidThreshold: "invalid_threshold",
	conversation.MsgUnknownEmoji:     "unknown_emoji",
	conversation.MsgStepFinished:     "stale_action",
	conversation.MsgForwardFirst:     "no_draft",
	conversation.MsgIncomplete:       "incomplete_draft",
}

func (uc *UseCase) recordRejection(text string) {
	if reason, ok := rejectionReasons[text]; ok {
		uc.metrics.RecordRejection(reason)
	}
}
