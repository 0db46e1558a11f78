package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	calls    map[int64]int
	texts    []string
	failures map[int64]int // chat id -> error code returned on the first attempt
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	chatID, _ := strconv.ParseInt(r.PostForm.Get("chat_id"), 10, 64)

	f.mu.Lock()
	f.calls[chatID]++
	attempt := f.calls[chatID]
	f.texts = append(f.texts, r.PostForm.Get("text"))
	code := f.failures[chatID]
	parseMode := r.PostForm.Get("parse_mode")
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if code != 0 && (code < 500 || attempt == 1) {
		fmt.Fprintf(w, `{"ok":false,"error_code":%d,"description":"failure %d"}`, code, code)
		return
	}
	if parseMode != "HTML" {
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"parse mode"}`)
		return
	}
	fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":%d,"type":"private"}}}`, chatID)
}

func newFakeTelegram(t *testing.T, chats []int64, failures map[int64]int) (*Telegram, *fakeBotAPI) {
	t.Helper()
	fake := &fakeBotAPI{calls: map[int64]int{}, failures: failures}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	tg, err := NewTelegram("123:abc", srv.URL+"/bot%s/%s", chats, 3, 5*time.Second,
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }))
	require.NoError(t, err)
	return tg, fake
}

func TestTelegramSendsToEveryChat(t *testing.T) {
	tg, fake := newFakeTelegram(t, []int64{10, 20}, nil)

	require.NoError(t, tg.Send(context.Background(), "<b>hello</b>"))
	assert.Equal(t, map[int64]int{10: 1, 20: 1}, fake.calls)
	assert.Equal(t, []string{"<b>hello</b>", "<b>hello</b>"}, fake.texts)
}

func TestTelegramRetriesServerErrors(t *testing.T) {
	tg, fake := newFakeTelegram(t, []int64{10}, map[int64]int{10: 502})

	require.NoError(t, tg.Send(context.Background(), "hi"))
	assert.Equal(t, 2, fake.calls[10])
}

func TestTelegramDoesNotRetryRejections(t *testing.T) {
	tg, fake := newFakeTelegram(t, []int64{10, 20}, map[int64]int{20: 403})

	err := tg.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 20")
	assert.NotContains(t, err.Error(), "chat 10")
	assert.Equal(t, 1, fake.calls[20])
	assert.Equal(t, 1, fake.calls[10])
}

func TestNewTelegramValidates(t *testing.T) {
	_, err := NewTelegram("", "", []int64{1}, 3, time.Second)
	require.Error(t, err)
	_, err = NewTelegram("t", "", nil, 3, time.Second)
	require.Error(t, err)
}
