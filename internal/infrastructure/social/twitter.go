package social

import (
	"context"
	"fmt"

	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Announcer posts a public announcement about a newly listed product.
// Failures must never block the listing itself.
type Announcer interface {
	AnnounceProduct(ctx context.Context, productName, storeName, productURL string) error
}

// TwitterAnnouncer posts product announcements as tweets via the
// Twitter v2 API.
type TwitterAnnouncer struct {
	client *resty.Client
	logger *zap.Logger
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func NewTwitterAnnouncer(cfg config.SocialConfig, logger *zap.Logger) *TwitterAnnouncer {
	client := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.BearerToken).
		SetHeader("Content-Type", "application/json")

	return &TwitterAnnouncer{client: client, logger: logger}
}

func (a *TwitterAnnouncer) AnnounceProduct(ctx context.Context, productName, storeName, productURL string) error {
	text := ComposeAnnouncement(productName, storeName, productURL)

	var result tweetResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(tweetRequest{Text: text}).
		SetResult(&result).
		Post("/tweets")
	if err != nil {
		return fmt.Errorf("twitter: failed to post tweet: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twitter: tweet rejected with status %d: %s", resp.StatusCode(), resp.String())
	}

	a.logger.Info("Posted product announcement",
		zap.String("product", productName),
		zap.String("tweet_id", result.Data.ID))
	return nil
}

// NoopAnnouncer drops announcements. Used when social posting is
// disabled.
type NoopAnnouncer struct {
	logger *zap.Logger
}

func NewNoopAnnouncer(logger *zap.Logger) *NoopAnnouncer {
	return &NoopAnnouncer{logger: logger}
}

func (a *NoopAnnouncer) AnnounceProduct(_ context.Context, productName, _, _ string) error {
	a.logger.Debug("Social posting disabled, dropping announcement",
		zap.String("product", productName))
	return nil
}

// NewAnnouncer returns a Twitter announcer when posting is enabled and
// a noop announcer otherwise.
func NewAnnouncer(cfg config.SocialConfig, logger *zap.Logger) Announcer {
	if !cfg.Enabled || cfg.BearerToken == "" {
		return NewNoopAnnouncer(logger)
	}
	return NewTwitterAnnouncer(cfg, logger)
}

var (
	_ Announcer = (*TwitterAnnouncer)(nil)
	_ Announcer = (*NoopAnnouncer)(nil)
)
