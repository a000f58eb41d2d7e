package storeclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailyemets/todoplash/internal/api"
	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/probe"
	"github.com/mikhailyemets/todoplash/internal/store"
	"github.com/mikhailyemets/todoplash/internal/storeclient"
)

type echoProber struct{}

func (echoProber) Probe(_ context.Context, domains []string) []domain.ProbeResult {
	out := make([]domain.ProbeResult, len(domains))
	for i, d := range domains {
		out[i] = probe.Classify(probe.Normalize(d), probe.OutcomeTLSFailure, 0)
	}
	return out
}

func newClient(t *testing.T) *storeclient.Client {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	r := chi.NewRouter()
	api.NewHandler(repo, echoProber{}, 0).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return storeclient.New(srv.URL+"/", storeclient.WithTimeout(5*time.Second))
}

func TestClient_Tasks(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "ship it")
	require.NoError(t, err)
	require.NotNil(t, created)

	got, err := c.GetTask(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "ship it", got.Description)

	_, err = c.GetTask(ctx, "42")
	assert.ErrorIs(t, err, storeclient.ErrUnexpectedStatus)
	assert.Equal(t, http.StatusNotFound, storeclient.StatusCode(err))

	updated, err := c.UpdateTask(ctx, "1", "ship it twice")
	require.NoError(t, err)
	assert.Equal(t, "ship it twice", updated.Description)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, c.DeleteTask(ctx, "1"))
	assert.ErrorIs(t, c.DeleteTask(ctx, "1"), storeclient.ErrUnexpectedStatus)

	res, err := c.DeleteAllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Deleted)
	assert.Equal(t, "Deleted 0 tasks.", res.Message)
}

func TestClient_Users(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.AddUser(ctx, "555", "testers")
	require.NoError(t, err)

	_, err = c.AddUser(ctx, "555", "testers")
	assert.ErrorIs(t, err, storeclient.ErrUnexpectedStatus)
	assert.Equal(t, http.StatusBadRequest, storeclient.StatusCode(err))

	user, err := c.EditUser(ctx, "555", "admins")
	require.NoError(t, err)
	assert.Equal(t, "admins", user.Group)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, c.DeleteUser(ctx, "555"))
}

func TestClient_SearchDomains(t *testing.T) {
	c := newClient(t)

	results, err := c.SearchDomains(context.Background(), probe.ListInput([]string{"b.test", "a.test"}))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://b.test", results[0].Domain)
	assert.Equal(t, domain.TLSStatusFailed, results[0].TLSStatus)
	assert.False(t, results[1].HTTPStatus.Applicable())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := storeclient.New(url, storeclient.WithTimeout(time.Second))
	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeclient.ErrTransport)
	assert.Zero(t, storeclient.StatusCode(err))
}

func TestClient_TimeoutBoundsSlowStore(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := storeclient.New(srv.URL, storeclient.WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := c.ListUsers(context.Background())

	assert.ErrorIs(t, err, storeclient.ErrTransport)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := storeclient.New(srv.URL).ListTasks(context.Background())
	assert.ErrorIs(t, err, storeclient.ErrBadResponse)

	var se *storeclient.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list tasks", se.Operation)
}
