package slack

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/slack-go/slack"
)

// fakeSlack はSlack Web APIを模したテスト用サーバー
type fakeSlack struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests map[string][]map[string]string
}

func newFakeSlack(t *testing.T, handlers map[string]http.HandlerFunc) (*fakeSlack, *slack.Client) {
	t.Helper()
	f := &fakeSlack{
		handlers: handlers,
		requests: make(map[string][]map[string]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/"))
}

func (f *fakeSlack) serve(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[1:]
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := make(map[string]string, len(r.Form))
	for key := range r.Form {
		form[key] = r.Form.Get(key)
	}

	f.mu.Lock()
	f.requests[method] = append(f.requests[method], form)
	handler, ok := f.handlers[method]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":false,"error":"unknown_method"}`)
		return
	}
	handler(w, r)
}

func (f *fakeSlack) calls(method string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.requests[method]...)
}

// respond は固定のJSONを返すハンドラーを作る
func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
