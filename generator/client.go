package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy decides what happens to a candidate that answers with a rate limit.
// One policy is fixed per Client for its whole lifetime.
type RetryPolicy string

const (
	// RetryImmediate moves on to the next candidate straight away.
	RetryImmediate RetryPolicy = "immediate"
	// RetryBackoff waits RateLimitBackoff and retries the same candidate once.
	RetryBackoff RetryPolicy = "backoff"
)

const RateLimitBackoff = 35 * time.Second

var errEmptyOutput = errors.New("model returned empty output")

// Client runs one generation across an ordered list of candidate models.
type Client struct {
	submitter Submitter
	models    []string
	policy    RetryPolicy
	backoff   time.Duration
	logger    *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

type ClientOption func(*Client)

// WithModels sets the candidate order; an empty list keeps DefaultModels.
func WithModels(models []string) ClientOption {
	return func(c *Client) {
		if len(models) > 0 {
			c.models = append([]string(nil), models...)
		}
	}
}

func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		if p == RetryBackoff {
			c.policy = RetryBackoff
		}
	}
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(sub Submitter, opts ...ClientOption) (*Client, error) {
	if sub == nil {
		return nil, errors.New("submitter is required")
	}
	c := &Client{
		submitter: sub,
		models:    append([]string(nil), DefaultModels...),
		policy:    RetryImmediate,
		backoff:   RateLimitBackoff,
		logger:    zap.NewNop(),
		now:       time.Now,
		sleep:     sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Models returns a copy of the candidate order.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}

// Generate sends prompt to each candidate in order until one succeeds.
// Any error returned is a *Failure.
func (c *Client) Generate(ctx context.Context, prompt, credential string) (Result, error) {
	var lastErr error
	rateLimited := 0

	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			return Result{}, &Failure{Kind: KindUnknown, Message: err.Error(), Err: err}
		}

		start := c.now()
		text, class, err := c.attempt(ctx, model, prompt, credential)
		log := c.logger.With(zap.String("model", model), zap.Duration("elapsed", c.now().Sub(start)))
		if err == nil {
			log.Info("generation succeeded", zap.Int("chars", len(text)))
			return Result{Text: text, Model: model, GeneratedAt: c.now().UTC()}, nil
		}

		switch class {
		case classAuth:
			log.Warn("credential rejected", zap.Error(err))
			return Result{}, &Failure{Kind: KindInvalidCredential, Message: "Invalid API key", Err: err}
		case classRate:
			log.Warn("model rate limited", zap.Error(err))
			rateLimited++
		default:
			log.Warn("model failed", zap.Error(err))
		}
		lastErr = err
	}

	if rateLimited == len(c.models) {
		return Result{}, &Failure{
			Kind:              KindAllModelsExhausted,
			Message:           "All models are rate limited. Please wait and try again.",
			RetryAfterSeconds: DefaultRetryAfterSeconds,
			Err:               lastErr,
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate models configured")
	}
	return Result{}, &Failure{Kind: KindUnknown, Message: lastErr.Error(), Err: lastErr}
}

// attempt makes one call, plus one delayed retry on a rate limit under RetryBackoff.
func (c *Client) attempt(ctx context.Context, model, prompt, credential string) (string, submitClass, error) {
	c.logger.Debug("trying model", zap.String("model", model))
	text, class, err := c.submitOnce(ctx, model, prompt, credential)
	if err == nil || class != classRate || c.policy != RetryBackoff {
		return text, class, err
	}

	c.logger.Info("rate limited, backing off before retry",
		zap.String("model", model), zap.Duration("backoff", c.backoff))
	if serr := c.sleep(ctx, c.backoff); serr != nil {
		return "", classOther, serr
	}
	return c.submitOnce(ctx, model, prompt, credential)
}

func (c *Client) submitOnce(ctx context.Context, model, prompt, credential string) (string, submitClass, error) {
	raw, err := c.submitter.Submit(ctx, model, prompt, credential)
	if err != nil {
		return "", classify(err), err
	}
	text := StripCodeFence(raw)
	if text == "" {
		return "", classOther, errEmptyOutput
	}
	return text, classOther, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
