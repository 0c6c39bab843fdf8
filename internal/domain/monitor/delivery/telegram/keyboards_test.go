package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
)

func TestKeyboards_EmojiPicker(t *testing.T) {
	k := NewKeyboards(config.DefaultEmojis, config.DefaultThresholdPresets)

	markup, ok := k.Markup(dto.Keyboard{Kind: dto.KeyboardEmojiPicker, Selected: []string{"🔥"}}).(*models.InlineKeyboardMarkup)
	require.True(t, ok)

	rows := markup.InlineKeyboard
	require.Len(t, rows, 3, "two rows of four emojis plus controls")
	assert.Len(t, rows[0], emojisPerRow)
	assert.Equal(t, "👍", rows[0][0].Text)
	assert.Equal(t, "emoji_toggle:👍", rows[0][0].CallbackData)
	assert.Equal(t, "✅ 🔥", rows[0][2].Text)
	assert.Equal(t, "emoji_done", rows[2][0].CallbackData)
	assert.Equal(t, "emoji_cancel", rows[2][1].CallbackData)
}

func TestKeyboards_Threshold(t *testing.T) {
	k := NewKeyboards(config.DefaultEmojis, []int{1, 3, 5, 10})

	markup, ok := k.Markup(dto.Keyboard{Kind: dto.KeyboardThreshold}).(*models.InlineKeyboardMarkup)
	require.True(t, ok)

	require.Len(t, markup.InlineKeyboard, 3)
	var data []string
	for _, b := range markup.InlineKeyboard[0] {
		data = append(data, b.CallbackData)
	}
	assert.Equal(t, []string{"thr:1", "thr:3", "thr:5", "thr:10"}, data)
	assert.Equal(t, "thr:custom", markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "thr:cancel", markup.InlineKeyboard[2][0].CallbackData)
}

func TestKeyboards_ConfirmAndNone(t *testing.T) {
	k := NewKeyboards(config.DefaultEmojis, config.DefaultThresholdPresets)

	markup, ok := k.Markup(dto.Keyboard{Kind: dto.KeyboardConfirm}).(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "confirm_monitor", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "cancel_monitor", markup.InlineKeyboard[0][1].CallbackData)

	assert.Nil(t, k.Markup(dto.Keyboard{}))
}
