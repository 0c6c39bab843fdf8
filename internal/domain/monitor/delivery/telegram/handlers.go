// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/conversation"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/usecase/business"
	pkgerrors "github.com/Conte777/reaction-monitor/pkg/errors"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	RequestTimeout   = 30 * time.Second
)

// Handlers contains Telegram handlers of one bot identity.
// Implements deps.Messenger interface
type Handlers struct {
	uc        *business.UseCase
	bot       *tgbot.Bot
	identity  dto.Identity
	keyboards *Keyboards
	logger    zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, identity dto.Identity, keyboards *Keyboards, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:        uc,
		bot:       bot,
		identity:  identity,
		keyboards: keyboards,
		logger: logger.With().
			Str("component", "telegram_handlers").
			Int64("bot_id", identity.ID).
			Logger(),
	}
}

// SendMessage implements deps.Messenger interface
func (h *Handlers) SendMessage(ctx context.Context, chatID int64, text string, opts dto.MessageOptions) (int, error) {
	if text == "" {
		h.logger.Warn().Int64("chat_id", chatID).Msg("Attempt to send empty message")
		return 0, fmt.Errorf("message text cannot be empty")
	}
	text = truncate(text, MaxMessageLength)

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: h.keyboards.Markup(opts.Keyboard),
	}
	if opts.ReplyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{
			MessageID:                opts.ReplyTo,
			AllowSendingWithoutReply: true,
		}
	}

	msg, err := h.bot.SendMessage(msgCtx, params)
	if err != nil {
		handledErr := h.handleSendMessageError(chatID, err)
		h.logMessageSend(chatID, utf8.RuneCountInString(text), false, handledErr)
		return 0, handledErr
	}

	h.logMessageSend(chatID, utf8.RuneCountInString(text), true, nil)
	return msg.ID, nil
}

// EditMessage implements deps.Messenger interface
func (h *Handlers) EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts dto.MessageOptions) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: h.keyboards.Markup(opts.Keyboard),
	})
	if err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		h.logger.Warn().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message")
		return fmt.Errorf("%w: %v", monerrors.ErrTelegramAPI, err)
	}

	return nil
}

// SetReaction implements deps.Messenger interface
func (h *Handlers) SetReaction(ctx context.Context, chatID int64, messageID int, emoji string, big bool) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SetMessageReaction(msgCtx, &tgbot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Reaction: []models.ReactionType{{
			Type: models.ReactionTypeTypeEmoji,
			ReactionTypeEmoji: &models.ReactionTypeEmoji{
				Type:  models.ReactionTypeTypeEmoji,
				Emoji: emoji,
			},
		}},
		IsBig: &big,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", monerrors.ErrTelegramAPI, err)
	}
	return nil
}

// AnswerCallback implements deps.Messenger interface
func (h *Handlers) AnswerCallback(ctx context.Context, callbackID, text string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(msgCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", monerrors.ErrTelegramAPI, err)
	}
	return nil
}

// Self implements deps.Messenger interface
func (h *Handlers) Self(_ context.Context) (dto.Identity, error) {
	return h.identity, nil
}

func (h *Handlers) principal(userID int64) dto.Principal {
	return dto.Principal{BotID: h.identity.ID, UserID: userID}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandStart.Slash(), "processing")

	resp, err := h.uc.HandleStart(ctx, h.principal(userID))
	if err != nil {
		h.logError(userID, consts.CommandStart.Slash(), err)
		h.sendResponse(ctx, chatID, "❌ Failed to process /start")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, consts.CommandStart.Slash(), "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandHelp.Slash(), "processing")

	resp, err := h.uc.HandleHelp(ctx)
	if err != nil {
		h.logError(userID, consts.CommandHelp.Slash(), err)
		h.sendResponse(ctx, chatID, "❌ Failed to process /help")
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(userID, consts.CommandHelp.Slash(), "success")
}

// HandleMonitors handles /monitors command
func (h *Handlers) HandleMonitors(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandMonitors.Slash(), "processing")

	resp, err := h.uc.HandleListMonitors(ctx, h.principal(userID))
	if err != nil {
		h.logError(userID, consts.CommandMonitors.Slash(), err)
		h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to load your monitors"))
		return
	}

	h.sendResponse(ctx, chatID, business.FormatMonitorList(resp))
	h.logCommand(userID, consts.CommandMonitors.Slash(), "success")
}

// HandleCancel handles /cancel command.
// With a chatId:messageId argument it stops an active monitor, otherwise it drops the setup in progress.
func (h *Handlers) HandleCancel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	in := dto.Interaction{Principal: h.principal(userID), ChatID: chatID}

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.logCommand(userID, consts.CommandCancel.Slash(), "draft")
		if err := h.uc.HandleAction(ctx, in, conversation.Cancel{}); err != nil {
			h.logError(userID, consts.CommandCancel.Slash(), err)
			h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to cancel the setup"))
		}
		return
	}

	h.logCommand(userID, consts.CommandCancel.Slash(), fmt.Sprintf("monitor: %s", args))

	removed, err := h.uc.HandleCancelMonitor(ctx, &dto.CancelMonitorRequest{Principal: in.Principal, Key: args})
	switch {
	case err == nil:
		h.sendResponse(ctx, chatID, fmt.Sprintf("🛑 Monitoring of <code>%s</code> stopped.", removed.Key))
		h.logCommand(userID, consts.CommandCancel.Slash(), "success")
	case errors.Is(err, monerrors.ErrMonitorNotFound):
		h.sendResponse(ctx, chatID, fmt.Sprintf("No active monitor for <code>%s</code>.", args))
	case errors.Is(err, monerrors.ErrNotMonitorOwner):
		h.sendResponse(ctx, chatID, "❌ This monitor belongs to another user.")
	case errors.Is(err, monerrors.ErrInvalidMonitorKey):
		h.sendResponse(ctx, chatID, "Usage: /cancel &lt;chatId:messageId&gt;")
	default:
		h.logError(userID, consts.CommandCancel.Slash(), err)
		h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to cancel the monitor"))
	}
}

// HandleHistory handles /history command
func (h *Handlers) HandleHistory(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, consts.CommandHistory.Slash(), "processing")

	items, err := h.uc.HandleHistory(ctx, h.principal(userID))
	if err != nil {
		if errors.Is(err, monerrors.ErrHistoryDisabled) {
			h.sendResponse(ctx, chatID, "History is not enabled on this deployment.")
			return
		}
		h.logError(userID, consts.CommandHistory.Slash(), err)
		h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to load history"))
		return
	}

	h.sendResponse(ctx, chatID, business.FormatHistory(items))
	h.logCommand(userID, consts.CommandHistory.Slash(), "success")
}

// HandleForwardedMessage handles forwarded posts and starts the setup wizard
func (h *Handlers) HandleForwardedMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	post := ForwardedPost(update.Message)

	h.logCommand(userID, "forward", fmt.Sprintf("origin: %d:%d", post.OriginChatID, post.OriginMessageID))

	in := dto.Interaction{Principal: h.principal(userID), ChatID: chatID}
	if err := h.uc.HandleForward(ctx, in, post); err != nil {
		h.logError(userID, "forward", err)
		h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to process the forwarded post"))
	}
}

// HandleCallback handles inline button presses of the setup wizard
func (h *Handlers) HandleCallback(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	userID := cq.From.ID

	in := dto.Interaction{
		Principal:  h.principal(userID),
		ChatID:     userID,
		CallbackID: cq.ID,
	}
	if msg := cq.Message.Message; msg != nil {
		in.ChatID = msg.Chat.ID
		in.PromptMessageID = msg.ID
	} else if im := cq.Message.InaccessibleMessage; im != nil {
		in.ChatID = im.Chat.ID
		in.PromptMessageID = im.MessageID
	}

	ev, ok := ParseCallback(cq.Data)
	if !ok {
		h.logger.Warn().Int64("user_id", userID).Str("data", cq.Data).Msg("Unknown callback data")
		if err := h.AnswerCallback(ctx, cq.ID, ""); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to answer callback")
		}
		return
	}

	if err := h.uc.HandleAction(ctx, in, ev); err != nil {
		h.logError(userID, "callback", err)
		if answerErr := h.AnswerCallback(ctx, cq.ID, errorText(err, "❌ Something went wrong")); answerErr != nil {
			h.logger.Debug().Err(answerErr).Msg("Failed to answer callback")
		}
	}
}

// HandleText handles free text, used for typed thresholds
func (h *Handlers) HandleText(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	in := dto.Interaction{Principal: h.principal(userID), ChatID: chatID}
	if err := h.uc.HandleAction(ctx, in, conversation.TextInput{Text: update.Message.Text}); err != nil {
		h.logError(userID, "text", err)
		h.sendResponse(ctx, chatID, errorText(err, "❌ Failed to process your message"))
	}
}

// HandleReaction handles message_reaction and message_reaction_count updates
func (h *Handlers) HandleReaction(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	upd, ok := ReactionFromUpdate(update)
	if !ok {
		return
	}

	if err := h.uc.HandleReactionUpdate(ctx, h.identity.ID, upd); err != nil {
		h.logger.Error().
			Err(err).
			Int64("chat_id", upd.ChatID).
			Int("message_id", upd.MessageID).
			Str("kind", string(upd.Kind)).
			Msg("Failed to handle reaction update")
	}
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if _, err := h.SendMessage(ctx, chatID, text, dto.MessageOptions{}); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

func (h *Handlers) handleSendMessageError(chatID int64, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "Forbidden"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot or chat not found")
		return fmt.Errorf("%w: user blocked the bot or chat not found", monerrors.ErrTelegramAPI)

	case strings.Contains(errorMsg, "chat not found"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Chat not found")
		return fmt.Errorf("%w: chat not found", monerrors.ErrTelegramAPI)

	case strings.Contains(errorMsg, "Too Many Requests"):
		h.logger.Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
		return fmt.Errorf("%w: rate limit exceeded", monerrors.ErrTelegramAPI)

	default:
		return fmt.Errorf("%w: %v", monerrors.ErrTelegramAPI, err)
	}
}

// logMessageSend logs message send result
func (h *Handlers) logMessageSend(chatID int64, length int, success bool, err error) {
	logEvent := h.logger.Debug()
	if !success {
		logEvent = h.logger.Error()
	}

	logEvent.Int64("chat_id", chatID).Int("message_length", length).Bool("success", success)

	if err != nil {
		logEvent.Err(err)
	}

	logEvent.Msg("Message send attempt completed")
}

// logCommand logs successful commands
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().
		Int64("user_id", userID).
		Str("command", command).
		Str("error_type", pkgerrors.TypeOf(err).String()).
		Err(err).
		Msg("Telegram command failed")
}

// errorText picks a user facing text for err
func errorText(err error, fallback string) string {
	switch pkgerrors.TypeOf(err) {
	case pkgerrors.ErrorTypeValidation:
		return "❌ " + err.Error()
	case pkgerrors.ErrorTypeNotFound:
		return "❌ Nothing found, it may have fired or been cancelled already."
	case pkgerrors.ErrorTypeConflict:
		return "⚠️ " + err.Error()
	case pkgerrors.ErrorTypePermission:
		return "⛔ You are not allowed to manage monitors."
	default:
		return fallback
	}
}

// truncate cuts text to at most limit characters, the unit Telegram counts in
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
