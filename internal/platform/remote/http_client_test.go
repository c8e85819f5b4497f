package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexday/lexday-api/internal/domain"
)

// snapshotServer is a minimal stand-in for the remote replica: one snapshot
// slot behind GET and PUT.
type snapshotServer struct {
	mu       sync.Mutex
	snapshot *domain.SnapshotPayload
}

func (s *snapshotServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/snapshot" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			if s.snapshot == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(s.snapshot)
		case http.MethodPut:
			var snapshot domain.SnapshotPayload
			if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			s.snapshot = &snapshot
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	client, err := NewHTTPClient("", time.Second, nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestPullEmptyRemoteReturnsNil(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer((&snapshotServer{}).handler())
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, time.Second, nil)
	require.NoError(t, err)

	snapshot, err := client.Pull(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestPushThenPullRoundTrip(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer((&snapshotServer{}).handler())
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, time.Second, nil)
	require.NoError(t, err)
	ctx := context.Background()

	word, err := domain.NewWord("hund", "dog")
	require.NoError(t, err)
	record, err := domain.NewScheduleRecord(word.ID, 2, 3)
	require.NoError(t, err)
	pushed := domain.SnapshotPayload{
		Cycle:   *domain.NewCycleState(),
		Words:   []domain.Word{*word},
		Records: []domain.ScheduleRecord{*record},
	}
	pushed.Cycle.Day = 2
	pushed.Cycle.Phase = domain.PhaseLunch

	require.NoError(t, client.Push(ctx, pushed))

	pulled, err := client.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, pulled)
	assert.Equal(t, 2, pulled.Cycle.Day)
	assert.Equal(t, domain.PhaseLunch, pulled.Cycle.Phase)
	require.Len(t, pulled.Words, 1)
	assert.Equal(t, "hund", pulled.Words[0].Term)
	require.Len(t, pulled.Records, 1)
	assert.Equal(t, record.WordID, pulled.Records[0].WordID)
}

func TestPullServerErrorReported(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, time.Second, nil)
	require.NoError(t, err)

	_, err = client.Pull(context.Background())
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestPushServerErrorReported(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, time.Second, nil)
	require.NoError(t, err)

	err = client.Push(context.Background(), domain.SnapshotPayload{Cycle: *domain.NewCycleState()})
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestPullHonorsContextCancellation(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewHTTPClient(server.URL, time.Minute, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Pull(ctx)
	assert.Error(t, err)
}
