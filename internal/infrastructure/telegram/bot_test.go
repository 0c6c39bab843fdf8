package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":777,"is_bot":true,"first_name":"Monitor","username":"monitor_bot"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewBot_ResolvesIdentity(t *testing.T) {
	api := fakeAPI(t)

	bot, err := newBot("777:secret", &config.TelegramConfig{}, zerolog.Nop(), tgbot.WithServerURL(api.URL))
	require.NoError(t, err)

	assert.Equal(t, int64(777), bot.ID())
	assert.Equal(t, "monitor_bot", bot.Username())
	assert.NotNil(t, bot.Raw())
}

func TestNewBot_RequiresToken(t *testing.T) {
	_, err := NewBot("", &config.TelegramConfig{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestWebhookPath(t *testing.T) {
	a := webhookPath("111:aaa")
	b := webhookPath("222:bbb")

	assert.True(t, strings.HasPrefix(a, "/tg/"))
	assert.Len(t, a, len("/tg/")+16)
	assert.Equal(t, a, webhookPath("111:aaa"))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "aaa", "token must not leak into the path")
}

func TestRecoverMiddleware(t *testing.T) {
	called := false
	handler := recoverMiddleware(zerolog.Nop())(func(context.Context, *tgbot.Bot, *models.Update) {
		called = true
		panic("boom")
	})

	assert.NotPanics(t, func() {
		handler(context.Background(), nil, &models.Update{ID: 1})
	})
	assert.True(t, called)
}

func TestBot_StopWaitsForUpdateProcessing(t *testing.T) {
	api := fakeAPI(t)
	bot, err := newBot("777:secret", &config.TelegramConfig{}, zerolog.Nop(), tgbot.WithServerURL(api.URL))
	require.NoError(t, err)

	require.NoError(t, bot.Stop(context.Background()), "stopping an idle bot is a no-op")

	returned := make(chan error, 1)
	go func() {
		returned <- bot.StartWebhook(context.Background(), "https://example.org", "")
	}()
	require.Eventually(t, bot.Running, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bot.Stop(ctx))

	select {
	case err := <-returned:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("StartWebhook did not return after Stop")
	}
	assert.False(t, bot.Running())
}
