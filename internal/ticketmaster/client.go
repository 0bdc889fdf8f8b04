package ticketmaster

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

const (
	// The Discovery API rejects deep pagination, so a fetch never walks
	// beyond this many pages regardless of the requested target count.
	maxPages = 5

	// Retries cover the whole fetch with the page cursor reset; individual
	// pages are never retried.
	maxFetchAttempts = 3
	fetchRetryDelay  = 500 * time.Millisecond
)

// FetchError reports that every fetch attempt against the Discovery API
// failed. It is the only error FetchEvents returns.
type FetchError struct {
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("event fetch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return &Client{
		http:    client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// FetchEvents pages through the music event listing until targetCount events
// are collected, the API returns an empty page, or the page ceiling is hit.
// On a transport failure the whole fetch restarts from page zero, up to
// maxFetchAttempts; exhaustion returns *FetchError.
func (c *Client) FetchEvents(ctx context.Context, targetCount, pageSizeCap int) ([]RawEvent, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(fetchRetryDelay):
			case <-ctx.Done():
				return nil, &FetchError{Attempts: attempt - 1, Err: lastErr}
			}
			log.Printf("[Ticketmaster] Retrying fetch from page 0 (attempt %d/%d)", attempt, maxFetchAttempts)
		}

		events, err := c.fetchAll(ctx, targetCount, pageSizeCap)
		if err != nil {
			lastErr = err
			continue
		}
		return events, nil
	}

	return nil, &FetchError{Attempts: maxFetchAttempts, Err: lastErr}
}

func (c *Client) fetchAll(ctx context.Context, targetCount, pageSizeCap int) ([]RawEvent, error) {
	var collected []RawEvent

	for page := 0; page < maxPages && len(collected) < targetCount; page++ {
		size := pageSizeCap
		if remaining := targetCount - len(collected); remaining < size {
			size = remaining
		}

		events, err := c.fetchPage(ctx, page, size)
		if err != nil {
			return nil, err
		}
		collected = append(collected, events...)

		// A short page means the listing is exhausted.
		if len(events) < size {
			break
		}
	}

	return collected, nil
}

func (c *Client) fetchPage(ctx context.Context, page, size int) ([]RawEvent, error) {
	var result eventsResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":             c.apiKey,
			"classificationName": "music",
			"size":               strconv.Itoa(size),
			"page":               strconv.Itoa(page),
			"sort":               "relevance,desc",
		}).
		SetResult(&result).
		Get(c.baseURL + "/events.json")

	if err != nil {
		return nil, fmt.Errorf("failed to fetch events page %d: %w", page, err)
	}

	// A non-2xx answer without a transport error ends pagination for this
	// attempt instead of failing the fetch.
	if resp.IsError() {
		log.Printf("[Ticketmaster] Unexpected status %d on page %d, ending pagination", resp.StatusCode(), page)
		return nil, nil
	}

	return result.Embedded.Events, nil
}
