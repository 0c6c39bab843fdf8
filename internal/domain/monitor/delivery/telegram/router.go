package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	// Commands
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandStart.Slash(), tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandHelp.Slash(), tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandMonitors.Slash(), tgbot.MatchTypeExact, r.handlers.HandleMonitors)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, consts.CommandHistory.Slash(), tgbot.MatchTypeExact, r.handlers.HandleHistory)
	bot.RegisterHandlerMatchFunc(matchCancel, r.handlers.HandleCancel)

	// Setup wizard
	bot.RegisterHandlerMatchFunc(matchForward, r.handlers.HandleForwardedMessage)
	bot.RegisterHandlerMatchFunc(matchCallback, r.handlers.HandleCallback)
	bot.RegisterHandlerMatchFunc(matchFreeText, r.handlers.HandleText)

	// Reactions
	bot.RegisterHandlerMatchFunc(matchReaction, r.handlers.HandleReaction)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

func privateMessage(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.From != nil &&
		update.Message.Chat.Type == models.ChatTypePrivate
}

func matchCancel(update *models.Update) bool {
	if !privateMessage(update) || update.Message.ForwardOrigin != nil {
		return false
	}
	text := update.Message.Text
	cmd := consts.CommandCancel.Slash()
	return text == cmd || (len(text) > len(cmd) && text[:len(cmd)+1] == cmd+" ")
}

func matchForward(update *models.Update) bool {
	return privateMessage(update) && update.Message.ForwardOrigin != nil
}

func matchCallback(update *models.Update) bool {
	return update.CallbackQuery != nil
}

func matchFreeText(update *models.Update) bool {
	return privateMessage(update) &&
		update.Message.ForwardOrigin == nil &&
		update.Message.Text != "" &&
		!isCommand(update.Message.Text)
}

func matchReaction(update *models.Update) bool {
	return update.MessageReaction != nil || update.MessageReactionCount != nil
}
