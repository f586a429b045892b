package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

func TestSend_RetriesRetryableStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3/mail/send", r.URL.Path)
		require.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var body mailSendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Goal reached", body.Subject)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("X-Message-Id", "m-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{
		APIKey:           "k",
		BaseURL:          srv.URL,
		DefaultFromEmail: "noreply@jobtrail.test",
		MaxRetries:       2,
		BaseBackoff:      time.Millisecond,
	})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "u@x.test"}},
		Subject: "Goal reached",
		Text:    "You hit your weekly applications goal.",
	})
	require.NoError(t, err)
	require.Equal(t, "m-1", res.MessageID)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSend_BadRequestNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad to"}]}`))
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, DefaultFromEmail: "n@x.test", MaxRetries: 3, BaseBackoff: time.Millisecond})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{
		To: []EmailAddress{{Email: "u@x.test"}}, Subject: "s", Text: "body text here",
	})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.StatusCode)
	require.Equal(t, "bad to", he.Message)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(logger.Nop(), Config{})
	require.Error(t, err)
}
