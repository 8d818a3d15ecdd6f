package fr24

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ucasa/flighttrack/pkg/model"
)

// detailResponse mirrors the subset of the clickhandler document this
// system extracts. Everything is optional; the upstream omits whole
// subtrees for flights it knows little about.
type detailResponse struct {
	Identification struct {
		ID       string  `json:"id"`
		Callsign *string `json:"callsign"`
	} `json:"identification"`

	Aircraft struct {
		Images struct {
			Large      []detailImage `json:"large"`
			Medium     []detailImage `json:"medium"`
			Thumbnails []detailImage `json:"thumbnails"`
		} `json:"images"`
	} `json:"aircraft"`

	Airport struct {
		Origin      *detailAirport `json:"origin"`
		Destination *detailAirport `json:"destination"`
	} `json:"airport"`
}

type detailImage struct {
	Src       string `json:"src"`
	Link      string `json:"link"`
	Copyright string `json:"copyright"`
}

type detailAirport struct {
	Code struct {
		IATA string `json:"iata"`
	} `json:"code"`
	Position struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Region    struct {
			City string `json:"city"`
		} `json:"region"`
	} `json:"position"`
}

// FlightDetail fetches the per-flight detail document for an opaque feed
// id and extracts whatever enrichment it carries: the best available
// aircraft photo and the origin/destination airports. Any missing nested
// path simply leaves the corresponding field nil.
func (c *Client) FlightDetail(ctx context.Context, flightID string) (*model.Enrichment, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/clickhandler/?version=1.5&flight=%s", c.baseURL, url.QueryEscape(flightID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching flight detail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var detail detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("parsing flight detail: %w", err)
	}

	return extractEnrichment(&detail), nil
}

func extractEnrichment(detail *detailResponse) *model.Enrichment {
	enr := &model.Enrichment{}

	// Largest available image wins
	for _, set := range [][]detailImage{
		detail.Aircraft.Images.Large,
		detail.Aircraft.Images.Medium,
		detail.Aircraft.Images.Thumbnails,
	} {
		if len(set) > 0 && set[0].Src != "" {
			enr.Image = &model.Photo{
				Found:        true,
				URL:          set[0].Src,
				Link:         set[0].Link,
				Photographer: set[0].Copyright,
			}
			break
		}
	}

	enr.Origin = convertAirport(detail.Airport.Origin)
	enr.Destination = convertAirport(detail.Airport.Destination)

	return enr
}

func convertAirport(a *detailAirport) *model.Airport {
	if a == nil || a.Code.IATA == "" {
		return nil
	}
	return &model.Airport{
		Code:   a.Code.IATA,
		City:   a.Position.Region.City,
		Coords: [2]float64{a.Position.Latitude, a.Position.Longitude},
	}
}
