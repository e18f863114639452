// dummy-assistant is a stand-in for the remote command interpretation
// service. It understands the local chat grammar plus "color <card> <color>"
// and "reset", and can be told to misbehave with DUMMY_ASSISTANT_MODE.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/command"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/remote"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes:
//
//	happy    answers every request (default)
//	error    replies 500 to everything
//	garbage  replies 200 with a body that is not JSON
//	slow     sleeps DUMMY_ASSISTANT_DELAY (default 5s) before answering
//	chatty   answers with a message but never an action
//
// DUMMY_ASSISTANT_LOG_LEVEL picks the log level (debug by default).
const (
	modeHappy   = "happy"
	modeError   = "error"
	modeGarbage = "garbage"
	modeSlow    = "slow"
	modeChatty  = "chatty"
)

var (
	colorPattern = regexp.MustCompile(`(?i)^(?:colou?r|paint)\s+(.+?)\s+(\S+)$`)
	resetPattern = regexp.MustCompile(`(?i)^reset(?:\s+layout)?$`)
)

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *version {
		fmt.Println("dummy-assistant v0.1.0")
		return
	}

	log, err := newLogger(os.Getenv("DUMMY_ASSISTANT_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	mode := currentMode()
	log.Info("dummy assistant listening", zap.String("addr", *addr), zap.String("mode", mode))

	if err := http.ListenAndServe(*addr, newHandler(mode, delay(), log)); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds the development logger at level, "debug" when empty.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

func currentMode() string {
	mode := strings.ToLower(os.Getenv("DUMMY_ASSISTANT_MODE"))
	if mode == "" {
		mode = modeHappy
	}
	return mode
}

func delay() time.Duration {
	if d, err := time.ParseDuration(os.Getenv("DUMMY_ASSISTANT_DELAY")); err == nil {
		return d
	}
	return 5 * time.Second
}

func newHandler(mode string, slowDelay time.Duration, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(remote.ChatPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		log.Info("chat request", zap.String("mode", mode), zap.String("request_id", r.Header.Get("X-Request-ID")))

		switch mode {
		case modeError:
			http.Error(w, "assistant exploded", http.StatusInternalServerError)
			return
		case modeGarbage:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, "<html>definitely not json")
			return
		case modeSlow:
			select {
			case <-time.After(slowDelay):
			case <-r.Context().Done():
				return
			}
		}

		var req remote.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}

		resp := answer(req)
		if mode == modeChatty {
			resp = remote.Response{Message: resp.Message}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Warn("writing response", zap.Error(err))
		}
	})
	return mux
}

// answer turns a chat message into a service response.
func answer(req remote.Request) remote.Response {
	msg := strings.TrimSpace(req.Message)

	if m := colorPattern.FindStringSubmatch(msg); m != nil {
		return remote.Response{
			Message: fmt.Sprintf("Sure, %s is now %s.", m[1], m[2]),
			Action:  remote.ActionColor,
			Element: m[1],
			Color:   strings.ToLower(m[2]),
		}
	}
	if resetPattern.MatchString(msg) {
		return remote.Response{
			Message: fmt.Sprintf("Your %s dashboard is back to its defaults.", req.Profile),
			Action:  remote.ActionReset,
		}
	}

	l := req.CurrentLayout
	switch o := command.Interpret(msg, l).(type) {
	case command.AddCard:
		return remote.Response{
			Message: fmt.Sprintf("Done! '%s' is on your dashboard.", o.Title),
			Action:  remote.ActionAdd,
			Element: o.Title,
		}
	case command.RemoveCard:
		return remote.Response{
			Message: fmt.Sprintf("'%s' has been removed.", o.Title),
			Action:  remote.ActionDelete,
			Element: o.Title,
		}
	case command.SwapCards:
		return remote.Response{
			Message:  fmt.Sprintf("Swapped '%s' and '%s'.", o.First, o.Second),
			Action:   remote.ActionSwap,
			Elements: []string{o.First, o.Second},
		}
	default:
		// show layout never reaches the service; everything else gets the
		// local wording with no action.
		res := command.Apply(o, &l, req.Profile)
		return remote.Response{Message: res.Reply}
	}
}
