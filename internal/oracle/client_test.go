package oracle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/studypilot/studypilot-back/internal/logger"
)

type fakeModel struct {
	system  string
	prompts []string
	replies []reply
}

type reply struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if txt, ok := p.(genai.Text); ok {
			f.prompts = append(f.prompts, string(txt))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.resp, r.err
}

func textReply(parts ...string) reply {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return reply{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}}
}

func errReply(err error) reply { return reply{err: err} }

func newTestClient(f *fakeModel, retries int) *Client {
	c := newClient(func(system string) generator {
		f.system = system
		return f
	}, retries, logger.Nop())
	c.backoff = time.Millisecond
	return c
}

func TestDraftSendsSystemAndPrompt(t *testing.T) {
	f := &fakeModel{replies: []reply{textReply(`{"plan":`, `[]}`)}}
	c := newTestClient(f, 0)

	got, err := c.Draft(context.Background(), "sys", "plan please")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if got != `{"plan":[]}` {
		t.Fatalf("got %q", got)
	}
	if f.system != "sys" || len(f.prompts) != 1 || f.prompts[0] != "plan please" {
		t.Fatalf("system=%q prompts=%v", f.system, f.prompts)
	}
}

func TestDraftRateLimited(t *testing.T) {
	cases := map[string]error{
		"429":   &googleapi.Error{Code: http.StatusTooManyRequests},
		"quota": &googleapi.Error{Code: http.StatusForbidden, Message: "Quota exceeded for quota metric"},
		"grpc":  errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"),
		"5xx quota": &googleapi.Error{
			Code: http.StatusServiceUnavailable,
			Body: `{"error":{"status":"RESOURCE_EXHAUSTED"}}`,
		},
	}
	for name, upstream := range cases {
		t.Run(name, func(t *testing.T) {
			f := &fakeModel{replies: []reply{errReply(upstream), textReply("late")}}
			c := newTestClient(f, 2)
			if _, err := c.Draft(context.Background(), "s", "p"); !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected ErrRateLimited, got %v", err)
			}
			if len(f.prompts) != 1 {
				t.Fatalf("rate limit retried: %d calls", len(f.prompts))
			}
		})
	}
}

func TestDraftRetriesServerErrors(t *testing.T) {
	f := &fakeModel{replies: []reply{
		errReply(&googleapi.Error{Code: http.StatusBadGateway}),
		textReply("ok"),
	}}
	c := newTestClient(f, 1)
	got, err := c.Draft(context.Background(), "s", "p")
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
	if len(f.prompts) != 2 {
		t.Fatalf("calls = %d", len(f.prompts))
	}
}

func TestDraftUnavailableAndEmpty(t *testing.T) {
	f := &fakeModel{replies: []reply{errReply(&googleapi.Error{Code: http.StatusInternalServerError})}}
	if _, err := newTestClient(f, 0).Draft(context.Background(), "s", "p"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	empties := map[string]reply{
		"no candidates": {resp: &genai.GenerateContentResponse{}},
		"blank text":    textReply("  \n"),
		"blocked":       errReply(&genai.BlockedError{}),
	}
	for name, r := range empties {
		t.Run(name, func(t *testing.T) {
			f := &fakeModel{replies: []reply{r}}
			if _, err := newTestClient(f, 0).Draft(context.Background(), "s", "p"); !errors.Is(err, ErrEmptyReply) {
				t.Fatalf("expected ErrEmptyReply, got %v", err)
			}
		})
	}
}

func TestDraftHonorsDeadline(t *testing.T) {
	f := &fakeModel{replies: []reply{errReply(&googleapi.Error{Code: http.StatusServiceUnavailable})}}
	c := newTestClient(f, 3)
	c.backoff = 2 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Draft(ctx, "s", "p"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{Model: "m"}, logger.Nop()); err == nil {
		t.Fatal("expected error without API key")
	}
}
