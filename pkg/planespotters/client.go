// Package planespotters resolves aircraft photos from the Planespotters
// public photo API by 24-bit hex transponder address.
//
// API Documentation: https://www.planespotters.net/photo/api
// The lookup never fails a request: any transport error, timeout, or
// empty result set yields a not-found result and the caller renders a
// placeholder.
package planespotters

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ucasa/flighttrack/pkg/model"
)

const (
	// BaseURL is the Planespotters public API base URL
	BaseURL = "https://api.planespotters.net/pub"

	// DefaultTimeout for photo lookups; shorter than the state feeds
	// since a photo is cosmetic
	DefaultTimeout = 5 * time.Second

	// DefaultUserAgent identifies this service to the photo API, which
	// asks API consumers to send a contactable User-Agent
	DefaultUserAgent = "flighttrack/1.0 (+https://github.com/ucasa/flighttrack)"
)

// demoPhotos is the fixed rotation of generic stock aircraft photos used
// only when demo mode is explicitly enabled.
var demoPhotos = []string{
	"https://images.unsplash.com/photo-1436491865332-7a61a109cc05?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1559297434-fae8a1916a79?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1542296332-2e44a99cfef9?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1569154941061-e231b4725ef1?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
}

// Config contains configuration for the photo client.
type Config struct {
	// BaseURL overrides the API URL (useful for testing)
	BaseURL string

	// Timeout for lookups (default: 5s)
	Timeout time.Duration

	// UserAgent sent with each request (default: DefaultUserAgent)
	UserAgent string

	// MinRequestInterval is the minimum delay between upstream calls.
	// Zero disables client-side limiting.
	MinRequestInterval time.Duration

	// DemoMode substitutes a fixed rotation of generic stock photos on
	// miss instead of reporting not found. Disabled by default; real
	// attribution is never fabricated when off.
	DemoMode bool
}

// Client is a Planespotters photo API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	demoMode   bool
}

// NewClient creates a photo lookup client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinRequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinRequestInterval), 1)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   limiter,
		userAgent: cfg.UserAgent,
		demoMode:  cfg.DemoMode,
	}
}

// photosResponse mirrors the /photos/hex/{hex} JSON shape.
type photosResponse struct {
	Photos []struct {
		ThumbnailLarge struct {
			Src string `json:"src"`
		} `json:"thumbnail_large"`
		Thumbnail struct {
			Src string `json:"src"`
		} `json:"thumbnail"`
		Link         string `json:"link"`
		Photographer string `json:"photographer"`
	} `json:"photos"`
}

// PhotoByHex looks up a photo for the given icao24 hex address. It
// always returns a usable result: found with URL/link/photographer, or
// not found. Upstream failures are logged, never propagated.
func (c *Client) PhotoByHex(ctx context.Context, icao24 string) model.Photo {
	photo, err := c.lookup(ctx, icao24)
	if err != nil {
		log.Printf("planespotters: lookup for %s failed: %v", icao24, err)
	}
	if photo.Found {
		return photo
	}
	if c.demoMode {
		return demoPhoto(icao24)
	}
	return model.Photo{Found: false}
}

func (c *Client) lookup(ctx context.Context, icao24 string) (model.Photo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Photo{}, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/photos/hex/%s", c.baseURL, icao24)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Photo{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Photo{}, fmt.Errorf("fetching photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Photo{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var parsed photosResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.Photo{}, fmt.Errorf("parsing photo response: %w", err)
	}

	if len(parsed.Photos) == 0 {
		return model.Photo{Found: false}, nil
	}

	p := parsed.Photos[0]

	// Largest available thumbnail wins
	src := p.ThumbnailLarge.Src
	if src == "" {
		src = p.Thumbnail.Src
	}
	if src == "" {
		return model.Photo{Found: false}, nil
	}

	return model.Photo{
		Found:        true,
		URL:          src,
		Link:         p.Link,
		Photographer: p.Photographer,
	}, nil
}

// demoPhoto picks a stable entry from the stock rotation so a given
// aircraft keeps the same placeholder across lookups.
func demoPhoto(icao24 string) model.Photo {
	h := fnv.New32a()
	h.Write([]byte(icao24))
	return model.Photo{
		Found:        true,
		URL:          demoPhotos[h.Sum32()%uint32(len(demoPhotos))],
		Link:         "https://unsplash.com",
		Photographer: "Unsplash (Generic Fallback)",
	}
}
