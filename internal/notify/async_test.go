package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	texts   []string
	err     error
	release chan struct{}
	ctxErr  error
}

func (r *recordingSender) Send(ctx context.Context, text string) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	r.ctxErr = ctx.Err()
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResults() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_notifications_total"}, []string{"result"})
}

func TestAsyncDoesNotBlockAndSurvivesCancel(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	results := newResults()
	a := NewAsync(sender, discardLogger(), time.Minute, results)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.NotifyRequisition(ctx, Summary{RequisitionID: 5, Author: "A"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyRequisition blocked on delivery")
	}

	cancel()
	close(sender.release)
	a.Wait()

	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "Requisition #5")
	assert.NoError(t, sender.ctxErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(results.WithLabelValues(ResultSent)))
}

func TestAsyncCountsFailures(t *testing.T) {
	results := newResults()
	a := NewAsync(&recordingSender{err: errors.New("telegram down")}, discardLogger(), time.Second, results)

	a.NotifyRequisition(context.Background(), Summary{RequisitionID: 1})
	a.Wait()
	assert.Equal(t, 1.0, testutil.ToFloat64(results.WithLabelValues(ResultFailed)))
}
