package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/vilaca/gitinsight/internal/api"
	"github.com/vilaca/gitinsight/internal/logger"
)

const (
	avatarFetchTimeout = 10 * time.Second
	maxAvatarBytes     = 2 << 20
)

// avatar is a downloaded profile image.
type avatar struct {
	data        []byte
	contentType string
}

// AvatarCache downloads profile images once and serves them from memory.
// Concurrent requests for the same image share one download.
type AvatarCache struct {
	client api.HTTPClient
	cache  *expirable.LRU[string, avatar]
	group  singleflight.Group
	logger logger.Logger
}

// NewAvatarCache creates a cache of at most size images kept for ttl.
func NewAvatarCache(client api.HTTPClient, size int, ttl time.Duration, log logger.Logger) *AvatarCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &AvatarCache{
		client: client,
		cache:  expirable.NewLRU[string, avatar](size, nil, ttl),
		logger: log,
	}
}

// Get returns the image at avatarURL and its content type.
func (c *AvatarCache) Get(ctx context.Context, avatarURL string) ([]byte, string, error) {
	if a, ok := c.cache.Get(avatarURL); ok {
		return a.data, a.contentType, nil
	}

	// The download is shared, so it must outlive the caller that started it.
	downloadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(avatarURL, func() (interface{}, error) {
		a, err := c.download(downloadCtx, avatarURL)
		if err != nil {
			return nil, err
		}
		c.cache.Add(avatarURL, a)
		return a, nil
	})

	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, "", res.Err
		}
		if res.Shared {
			c.logger.Debugw("avatar download shared", "url", avatarURL)
		}
		a := res.Val.(avatar)
		return a.data, a.contentType, nil
	}
}

func (c *AvatarCache) download(ctx context.Context, avatarURL string) (avatar, error) {
	ctx, cancel := context.WithTimeout(ctx, avatarFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return avatar{}, fmt.Errorf("failed to create avatar request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return avatar{}, fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return avatar{}, fmt.Errorf("avatar fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return avatar{}, fmt.Errorf("failed to read avatar: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	c.logger.Debugw("cached avatar", "url", avatarURL, "bytes", len(data))
	return avatar{data: data, contentType: contentType}, nil
}
