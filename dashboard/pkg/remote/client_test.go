package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/command"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ChatSendsContract(t *testing.T) {
	var (
		gotBody   map[string]any
		gotReqID  string
		gotMethod string
		gotPath   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotReqID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Done!","action":"add_element","element":"Calendar","icon":"fas fa-calendar"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	resp, err := c.Chat(context.Background(), Request{
		Message:       "add Calendar",
		Profile:       layout.ProfileStudent,
		CurrentLayout: layout.DefaultLayout(layout.ProfileStudent),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, ChatPath, gotPath)
	_, err = uuid.Parse(gotReqID)
	assert.NoError(t, err, "X-Request-ID should be a uuid")

	assert.Equal(t, "add Calendar", gotBody["message"])
	assert.Equal(t, "student", gotBody["profile"])
	current := gotBody["current_layout"].(map[string]any)
	assert.Len(t, current["cards"], 6)
	assert.Contains(t, current, "deletedCards")

	assert.Equal(t, "Done!", resp.Message)
	assert.Equal(t, command.AddCard{Title: "Calendar", Icon: "fas fa-calendar"}, resp.Outcome())
}

func TestClient_FailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>nope</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, nil).Chat(context.Background(), Request{Message: "hi"})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil).Chat(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond, nil).Chat(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResponse_Outcome(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want command.Outcome
	}{
		{"message only", Response{Message: "hello"}, nil},
		{"unknown action", Response{Action: "dance"}, nil},
		{"add", Response{Action: ActionAdd, Element: "X"}, command.AddCard{Title: "X"}},
		{"add without element", Response{Action: ActionAdd}, nil},
		{"delete", Response{Action: ActionDelete, Element: "Grades"}, command.RemoveCard{Title: "Grades"}},
		{"swap", Response{Action: ActionSwap, Elements: []string{"A", "B"}}, command.SwapCards{First: "A", Second: "B"}},
		{"swap with one element", Response{Action: ActionSwap, Elements: []string{"A"}}, nil},
		{"color", Response{Action: ActionColor, Element: "Grades", Color: "red"}, command.ChangeColor{Title: "Grades", Color: "red"}},
		{"reset", Response{Action: ActionReset}, command.ResetLayout{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.Outcome())
		})
	}
}
