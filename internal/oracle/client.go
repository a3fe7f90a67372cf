// Package oracle asks a Gemini model to draft study plans.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/studypilot/studypilot-back/internal/logger"
)

var (
	// ErrRateLimited means the provider refused the call for quota reasons.
	ErrRateLimited = errors.New("AI service is temporarily unavailable due to rate limits. Please wait a minute and try again")
	ErrUnavailable = errors.New("AI service unavailable")
	ErrEmptyReply  = errors.New("AI service returned an empty response")
)

const defaultModel = "gemini-2.5-flash"

type Options struct {
	APIKey string
	Model  string
	// Endpoint overrides the Generative Language API host. Empty uses Google's.
	Endpoint   string
	MaxRetries int
}

// generator is the part of genai.GenerativeModel the client uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Client struct {
	log        *logger.Logger
	gc         *genai.Client
	model      func(system string) generator
	maxRetries int
	backoff    time.Duration
}

func NewClient(ctx context.Context, opts Options, baseLog *logger.Logger) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("missing ORACLE_API_KEY")
	}
	name := strings.TrimSpace(opts.Model)
	if name == "" {
		name = defaultModel
	}
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if ep := strings.TrimSpace(opts.Endpoint); ep != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(ep))
	}
	gc, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}

	c := newClient(func(system string) generator {
		// A fresh model per call keeps SystemInstruction out of shared state.
		m := gc.GenerativeModel(name)
		m.SystemInstruction = genai.NewUserContent(genai.Text(system))
		m.ResponseMIMEType = "application/json"
		return m
	}, opts.MaxRetries, baseLog)
	c.gc = gc
	c.log.Info("Gemini client initialized", "model", name)
	return c, nil
}

func newClient(model func(system string) generator, maxRetries int, baseLog *logger.Logger) *Client {
	return &Client{
		log:        baseLog.With("component", "OracleClient"),
		model:      model,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

func (c *Client) Close() error {
	if c.gc == nil {
		return nil
	}
	return c.gc.Close()
}

// Draft sends the system instruction and the prompt and returns the reply text.
func (c *Client) Draft(ctx context.Context, system, prompt string) (string, error) {
	m := c.model(system)
	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			return replyText(resp)
		}
		if !retryable(err) || attempt >= c.maxRetries {
			return "", classify(err)
		}

		c.log.Warn("oracle request retrying", "attempt", attempt+1, "sleep", backoff.String(), "error", err.Error())
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}

// Only upstream 5xx answers are retried. Rate limits surface to the caller.
func retryable(err error) bool {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code >= 500 && !isQuota(ge.Message+" "+ge.Body)
	}
	return false
}

func isQuota(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "quota") || strings.Contains(s, "resource_exhausted")
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %w", ErrEmptyReply, err)
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) && ge.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	if isQuota(err.Error()) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
