package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PumpPal/pkg/logger"
	"PumpPal/pkg/metrics"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	UnavailableText = "The AI service is unavailable. Please try again later."
	EmptyReplyText  = "Sorry, I couldn't generate a response right now."
)

type DegradeReason string

const (
	ReasonUnavailable DegradeReason = "unavailable"
	ReasonEmpty       DegradeReason = "empty"
)

// Completion is the outcome of one gateway call. Text is always usable as a
// reply; Degraded marks the fallback texts.
type Completion struct {
	Text     string
	Degraded bool
	Reason   DegradeReason
}

func (c Completion) outcome() string {
	if !c.Degraded {
		return "answered"
	}
	return string(c.Reason)
}

// Completer produces a reply for a single user turn. Implementations never
// fail; problems are reported through a degraded Completion.
type Completer interface {
	Complete(ctx context.Context, userText string) Completion
}

type GatewayConfig struct {
	BaseURL      string
	Token        string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// InferenceGateway calls an OpenAI-compatible chat completion endpoint.
type InferenceGateway struct {
	client *openai.Client
	cfg    GatewayConfig
	log    *zap.Logger
}

func NewInferenceGateway(cfg GatewayConfig, log *zap.Logger) *InferenceGateway {
	g := &InferenceGateway{cfg: cfg, log: logger.OrNop(log).Named("inference")}
	if strings.TrimSpace(cfg.Token) == "" {
		g.log.Warn("GITHUB_TOKEN is not set; every completion will use the fallback text")
		return g
	}
	oc := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	g.client = openai.NewClientWithConfig(oc)
	return g
}

func (g *InferenceGateway) Complete(ctx context.Context, userText string) Completion {
	start := time.Now()
	c := g.complete(ctx, userText)
	metrics.ObserveCompletion(c.outcome(), time.Since(start))
	return c
}

func (g *InferenceGateway) complete(ctx context.Context, userText string) Completion {
	if g.client == nil {
		return unavailable()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		Temperature: 1,
		TopP:        1,
	})
	if err != nil && isDecodeError(err) {
		g.log.Warn("chat completion body could not be decoded",
			zap.String("model", g.cfg.Model),
			zap.Error(err),
		)
		return emptyReply()
	}
	if err != nil {
		g.log.Error("chat completion failed",
			zap.Int("status", statusOf(err)),
			zap.String("model", g.cfg.Model),
			zap.Error(err),
		)
		return unavailable()
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.log.Warn("chat completion returned no content",
			zap.Int("choices", len(resp.Choices)),
			zap.String("model", g.cfg.Model),
		)
		return emptyReply()
	}
	return Completion{Text: resp.Choices[0].Message.Content}
}

func emptyReply() Completion {
	return Completion{Text: EmptyReplyText, Degraded: true, Reason: ReasonEmpty}
}

func unavailable() Completion {
	return Completion{Text: UnavailableText, Degraded: true, Reason: ReasonUnavailable}
}

// isDecodeError reports whether err came from decoding a 2xx body, as
// opposed to the transport or an upstream error status.
func isDecodeError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) || statusOf(err) != 0 {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// statusOf extracts the HTTP status from a go-openai error, or 0 for
// transport failures.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
