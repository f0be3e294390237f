package mapboxhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/diggibyte/lastmile-user/internal/models"
	"github.com/pkg/errors"
)

// Client estimates transit delay between two points using the Mapbox
// driving-traffic directions profile. Single call, no retry; callers
// degrade when it fails.
type Client struct {
	baseURL     string
	accessToken string
	httpc       *http.Client
}

func New(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mapbox.com"
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpc:       &http.Client{},
	}
}

type directionsResp struct {
	Routes []struct {
		Duration        float64 `json:"duration"`
		DurationTypical float64 `json:"duration_typical"`
	} `json:"routes"`
}

func (c *Client) EstimateDelay(ctx context.Context, originLat, originLon, destLat, destLon float64) (models.TrafficEstimate, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.TrafficEstimate{}, errors.Wrap(err, "parse base url")
	}
	// Mapbox wants lon,lat pairs.
	u.Path = fmt.Sprintf("/directions/v5/mapbox/driving-traffic/%f,%f;%f,%f",
		originLon, originLat, destLon, destLat)

	q := u.Query()
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("annotations", "duration")
	q.Set("access_token", c.accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TrafficEstimate{}, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TrafficEstimate{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return models.TrafficEstimate{}, fmt.Errorf("directions http %d", resp.StatusCode)
	}

	var r directionsResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return models.TrafficEstimate{}, errors.Wrap(err, "decode")
	}
	if len(r.Routes) == 0 {
		return models.TrafficEstimate{}, errors.New("directions: no routes in response")
	}

	route := r.Routes[0]
	withTraffic := route.Duration
	typical := route.DurationTypical

	return models.TrafficEstimate{
		TypicalMin:     roundMin(typical),
		WithTrafficMin: roundMin(withTraffic),
		DelayMin:       roundMin(withTraffic - typical),
	}, nil
}

func roundMin(seconds float64) float64 {
	return math.Round(seconds/60*10) / 10
}
