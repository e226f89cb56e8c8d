// Package tourapi is a Go client for the tour booking REST API.
package tourapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx response from a reachable backend
type APIError struct {
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tourapi: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tourapi: %d: %s", e.StatusCode, e.Message)
}

// Is matches the domain sentinels (models.ErrCapacityExceeded, ...) by code
func (e *APIError) Is(target error) bool {
	var de *models.DomainError
	if !errors.As(target, &de) {
		return false
	}
	return string(de.Kind) == e.Code
}

// Client calls the /api/v1 endpoints
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logrus.Logger

	demoUserID string
	demo       *demoLedger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as the bearer credential
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDemoFallback answers from an in-process demo ledger, acting as
// userID, whenever the backend cannot be reached. Responses from a reachable
// backend, errors included, are never replaced.
func WithDemoFallback(userID string) Option {
	return func(c *Client) { c.demoUserID = userID }
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.demoUserID != "" {
		c.demo = newDemoLedger(c.demoUserID, c.logger)
	}
	return c
}

// Health returns the backend health document
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}

// SearchTours runs a catalog search
func (c *Client) SearchTours(ctx context.Context, q models.SearchQuery) (*models.PaginatedResponse[models.TourPackageResponse], error) {
	return call(ctx, c,
		func() (*models.PaginatedResponse[models.TourPackageResponse], error) {
			var out models.PaginatedResponse[models.TourPackageResponse]
			return &out, c.do(ctx, http.MethodGet, "/tours/search", searchValues(q), nil, &out)
		},
		func(d *demoLedger) (*models.PaginatedResponse[models.TourPackageResponse], error) {
			return d.svc.Search.SearchPage(ctx, &q)
		})
}

// GetTour returns one active package with its slots
func (c *Client) GetTour(ctx context.Context, id string) (*models.TourPackageResponse, error) {
	return call(ctx, c,
		func() (*models.TourPackageResponse, error) {
			var out models.TourPackageResponse
			return &out, c.do(ctx, http.MethodGet, "/tours/"+url.PathEscape(id), nil, nil, &out)
		},
		func(d *demoLedger) (*models.TourPackageResponse, error) {
			return d.svc.Catalog.GetPackage(ctx, id, "")
		})
}

// ListLocations returns every location
func (c *Client) ListLocations(ctx context.Context) ([]models.Location, error) {
	return call(ctx, c,
		func() ([]models.Location, error) {
			var out struct {
				Locations []models.Location `json:"locations"`
			}
			err := c.do(ctx, http.MethodGet, "/locations", nil, nil, &out)
			return out.Locations, err
		},
		func(d *demoLedger) ([]models.Location, error) {
			return d.svc.Directory.ListLocations(ctx)
		})
}

// CreateBooking books people on a slot
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	return call(ctx, c,
		func() (*models.Booking, error) {
			var out models.Booking
			return &out, c.do(ctx, http.MethodPost, "/bookings", nil, req, &out)
		},
		func(d *demoLedger) (*models.Booking, error) {
			return d.svc.Bookings.CreateBooking(ctx, d.userID, &req)
		})
}

// GetBooking returns a booking with its package and slot
func (c *Client) GetBooking(ctx context.Context, id string) (*models.BookingResponse, error) {
	return call(ctx, c,
		func() (*models.BookingResponse, error) {
			var out models.BookingResponse
			return &out, c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil, &out)
		},
		func(d *demoLedger) (*models.BookingResponse, error) {
			return d.svc.Bookings.GetBooking(ctx, id, d.userID)
		})
}

// ListMyBookings returns the caller's bookings, newest first
func (c *Client) ListMyBookings(ctx context.Context) ([]models.BookingResponse, error) {
	return call(ctx, c,
		func() ([]models.BookingResponse, error) {
			var out []models.BookingResponse
			err := c.do(ctx, http.MethodGet, "/users/me/bookings", nil, nil, &out)
			return out, err
		},
		func(d *demoLedger) ([]models.BookingResponse, error) {
			return d.svc.Bookings.ListUserBookings(ctx, d.userID)
		})
}

// CancelBooking cancels a booking
func (c *Client) CancelBooking(ctx context.Context, id string) (*models.CancelBookingResponse, error) {
	return call(ctx, c,
		func() (*models.CancelBookingResponse, error) {
			var out models.CancelBookingResponse
			return &out, c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/cancel", nil, nil, &out)
		},
		func(d *demoLedger) (*models.CancelBookingResponse, error) {
			return d.svc.Bookings.CancelBooking(ctx, id, d.userID)
		})
}

// Chat asks for tour recommendations
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatMessage, error) {
	return call(ctx, c,
		func() (*models.ChatMessage, error) {
			var out models.ChatMessage
			return &out, c.do(ctx, http.MethodPost, "/ai/chat", nil, req, &out)
		},
		func(d *demoLedger) (*models.ChatMessage, error) {
			return d.svc.Chat.Chat(ctx, &req)
		})
}

// call runs remote and switches to demo only when the backend is unreachable
func call[T any](ctx context.Context, c *Client, remote func() (T, error), demo func(*demoLedger) (T, error)) (T, error) {
	out, err := remote()
	if err == nil {
		return out, nil
	}
	if c.demo == nil || !Unreachable(ctx, err) {
		var zero T
		return zero, err
	}

	c.logger.WithError(err).Warn("tour API unreachable, answering from demo data")
	return demo(c.demo)
}

// Unreachable reports whether err means no response was received: dial
// failures, resets and timeouts. It is false for *APIError and for requests
// the caller cancelled.
func Unreachable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func searchValues(q models.SearchQuery) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("location", q.Location)
	if q.MaxDays != nil {
		set("max_days", strconv.Itoa(*q.MaxDays))
	}
	if q.MinPrice != nil {
		set("min_price", strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		set("max_price", strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.TotalPeople != nil {
		set("total_people", strconv.Itoa(*q.TotalPeople))
	}
	set("start_date", q.StartDate)
	set("end_date", q.EndDate)
	set("sort", q.Sort)
	if q.Page > 0 {
		set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
