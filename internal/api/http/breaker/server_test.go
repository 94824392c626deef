package breaker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/circuit-breaker/internal/domain/breaker"
)

// stubService is a scripted Service implementation for transport tests.
type stubService struct {
	// event is returned from transition calls.
	event *domain.Event
	// status is returned from Status.
	status *domain.Status
	// err, when set, is returned from every call.
	err error

	// lastDuration records the duration pointer passed to Pause.
	lastDuration *uint64
	// lastIfElapsed records the flag passed to Unpause.
	lastIfElapsed bool
}

func (s *stubService) Pause(_ context.Context, _ *domain.Actor, duration *uint64) (*domain.Event, error) {
	s.lastDuration = duration

	return s.event, s.err
}

func (s *stubService) Unpause(_ context.Context, _ *domain.Actor, ifElapsed bool) (*domain.Event, error) {
	s.lastIfElapsed = ifElapsed

	return s.event, s.err
}

func (s *stubService) Status(context.Context) (*domain.Status, error) {
	return s.status, s.err
}

func newTestServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()

	router := mux.NewRouter()
	NewServer(svc).Register(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return ts
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	//nolint:noctx // Plain test request.
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) *T {
	t.Helper()

	defer resp.Body.Close()

	out := new(T)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))

	return out
}

// TestPauseEndpoint verifies a successful pause returns the notification and
// forwards the duration pointer untouched.
func TestPauseEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		event: &domain.Event{
			ID:       "evt-1",
			Kind:     domain.EventPausedFor,
			At:       100,
			Duration: 10,
			Deadline: 110,
		},
	}
	ts := newTestServer(t, svc)

	duration := uint64(10)
	resp := postJSON(t, ts.URL+"/v1/pause", &PauseRequest{
		Actor:           &ActorPayload{Hostname: "ops-1", Username: "duty-officer"},
		DurationSeconds: &duration,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[TransitionResponse](t, resp)
	require.False(t, body.NoOp)
	require.Equal(t, "evt-1", body.Event.ID)
	require.Equal(t, uint64(110), body.Event.Deadline)

	require.NotNil(t, svc.lastDuration)
	require.Equal(t, uint64(10), *svc.lastDuration)
}

// TestPauseEndpointNoOp maps a nil event to the no-op response.
func TestPauseEndpointNoOp(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &stubService{})

	duration := uint64(0)
	resp := postJSON(t, ts.URL+"/v1/pause", &PauseRequest{
		Actor:           &ActorPayload{Hostname: "ops-1", Username: "duty-officer"},
		DurationSeconds: &duration,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[TransitionResponse](t, resp)
	require.True(t, body.NoOp)
	require.Nil(t, body.Event)
}

// TestPauseEndpointRequiresActor rejects a missing actor with 400.
func TestPauseEndpointRequiresActor(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &stubService{})

	resp := postJSON(t, ts.URL+"/v1/pause", &PauseRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	require.Equal(t, KindBadRequest, body.Kind)
}

// TestUnpauseEndpoint verifies the if_elapsed flag reaches the service.
func TestUnpauseEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		event: &domain.Event{
			ID:   "evt-2",
			Kind: domain.EventUnpaused,
			At:   110,
		},
	}
	ts := newTestServer(t, svc)

	resp := postJSON(t, ts.URL+"/v1/unpause", &UnpauseRequest{
		Actor:     &ActorPayload{Hostname: "ops-1", Username: "duty-officer"},
		IfElapsed: true,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, svc.lastIfElapsed)

	body := decodeBody[TransitionResponse](t, resp)
	require.Equal(t, string(domain.EventUnpaused), body.Event.Kind)
}

// TestErrorMapping pins the taxonomy-to-status mapping and the wire kinds.
func TestErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{domain.ErrEnforcedPause, http.StatusConflict, KindEnforcedPause},
		{domain.ErrExpectedPause, http.StatusConflict, KindExpectedPause},
		{domain.ErrPauseDurationNotElapsed, http.StatusConflict, KindPauseDurationNotElapsed},
		{domain.ErrDeadlineOverflow, http.StatusUnprocessableEntity, KindDeadlineOverflow},
	}

	for _, tc := range cases {
		ts := newTestServer(t, &stubService{err: tc.err})

		resp := postJSON(t, ts.URL+"/v1/pause", &PauseRequest{
			Actor: &ActorPayload{Hostname: "ops-1", Username: "duty-officer"},
		})

		require.Equal(t, tc.status, resp.StatusCode)

		body := decodeBody[ErrorResponse](t, resp)
		require.Equal(t, tc.kind, body.Kind)

		// The client-side mapping inverts the server-side one.
		require.ErrorIs(t, ErrorFromKind(body.Kind, body.Message), tc.err)
	}
}

// TestStatusEndpoint round-trips the status view.
func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	svc := &stubService{
		status: &domain.Status{
			Paused:    true,
			Deadline:  110,
			Now:       105,
			ClockMode: domain.ClockMode,
			LastActor: &domain.Actor{Hostname: "ops-1", Username: "duty-officer"},
			LastEvent: domain.EventPausedFor,
		},
	}
	ts := newTestServer(t, svc)

	//nolint:noctx // Plain test request.
	resp, err := http.Get(ts.URL + "/v1/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[StatusResponse](t, resp)
	require.True(t, body.Paused)
	require.Equal(t, uint64(110), body.Deadline)
	require.Equal(t, uint64(105), body.Now)
	require.Equal(t, domain.ClockMode, body.ClockMode)
	require.Equal(t, "duty-officer", body.LastActor.Username)
}

// TestMalformedBody rejects unparseable JSON with 400.
func TestMalformedBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &stubService{})

	//nolint:noctx // Plain test request.
	resp, err := http.Post(ts.URL+"/v1/pause", "application/json", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
