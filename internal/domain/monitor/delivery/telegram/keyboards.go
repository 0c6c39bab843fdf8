package telegram

import (
	"strconv"

	"github.com/go-telegram/bot/models"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
)

// emojisPerRow is the width of the emoji picker grid
const emojisPerRow = 4

// Keyboards renders transport independent keyboards as inline markup
type Keyboards struct {
	emojis  []string
	presets []int
}

// NewKeyboards creates a keyboard renderer for the configured palette and presets
func NewKeyboards(emojis []string, presets []int) *Keyboards {
	return &Keyboards{emojis: emojis, presets: presets}
}

// Markup returns the reply markup for kb, nil when no keyboard is attached
func (k *Keyboards) Markup(kb dto.Keyboard) models.ReplyMarkup {
	switch kb.Kind {
	case dto.KeyboardEmojiPicker:
		return k.emojiPicker(kb.Selected)
	case dto.KeyboardThreshold:
		return k.threshold()
	case dto.KeyboardConfirm:
		return confirm()
	default:
		return nil
	}
}

func (k *Keyboards) emojiPicker(selected []string) *models.InlineKeyboardMarkup {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, e := range k.emojis {
		label := e
		if chosen[e] {
			label = "✅ " + e
		}
		row = append(row, models.InlineKeyboardButton{Text: label, CallbackData: consts.CallbackEmojiToggle + e})
		if len(row) == emojisPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✅ Done", CallbackData: consts.CallbackEmojiDone},
		{Text: "❌ Cancel", CallbackData: consts.CallbackEmojiCancel},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (k *Keyboards) threshold() *models.InlineKeyboardMarkup {
	presets := make([]models.InlineKeyboardButton, 0, len(k.presets))
	for _, p := range k.presets {
		presets = append(presets, models.InlineKeyboardButton{
			Text:         strconv.Itoa(p),
			CallbackData: consts.CallbackThreshold + strconv.Itoa(p),
		})
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		presets,
		{{Text: "✏️ Custom", CallbackData: consts.CallbackThresholdAsk}},
		{{Text: "❌ Cancel", CallbackData: consts.CallbackThresholdStop}},
	}}
}

func confirm() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{{
		{Text: "✅ Confirm", CallbackData: consts.CallbackConfirm},
		{Text: "❌ Cancel", CallbackData: consts.CallbackCancel},
	}}}
}
