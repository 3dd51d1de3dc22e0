package gcal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// eventsAPI is the slice of the Calendar REST surface the sync workflows
// need. The real implementation wraps *calendar.Service; tests substitute a
// fake to exercise the partial-failure paths.
type eventsAPI interface {
	Insert(ctx context.Context, calendarID string, event *calendar.Event) error
	List(ctx context.Context, calendarID, privateProperty string, timeMin, timeMax time.Time) ([]*calendar.Event, error)
	Delete(ctx context.Context, calendarID, eventID string) error
}

// Client owns the authorized Calendar REST service. It is an explicit,
// injected dependency constructed once in main rather than ambient global
// state; the REST service inside it is initialized lazily on the first
// sync operation and reused for the life of the process.
type Client struct {
	cfg Config

	// mu serializes token acquisition and service initialization. The add
	// and remove workflows can run from concurrent HTTP requests, and token
	// attachment is not otherwise synchronized.
	mu     sync.Mutex
	events eventsAPI
}

// NewClient creates an unauthorized client. No network activity happens
// until the first sync operation calls authorize.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// authorize validates configuration, acquires a bearer token scoped to full
// calendar read/write, and initializes the Calendar REST service with the
// token attached. The service is created once and reused; subsequent calls
// return it immediately.
func (c *Client) authorize(ctx context.Context) (eventsAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.events != nil {
		return c.events, nil
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}

	// The refresh token stands in for the user's one-time consent; the
	// token source exchanges it for a bearer access token.
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access token", ErrAuthorization)
	}

	// The service outlives the triggering request, so it is built on the
	// background context rather than the request context.
	svc, err := calendar.NewService(context.Background(), option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorization, err)
	}

	c.events = &googleEvents{svc: svc}
	return c.events, nil
}

// googleEvents implements eventsAPI against the real Calendar v3 service.
type googleEvents struct {
	svc *calendar.Service
}

func (g *googleEvents) Insert(ctx context.Context, calendarID string, event *calendar.Event) error {
	_, err := g.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	return err
}

func (g *googleEvents) List(ctx context.Context, calendarID, privateProperty string, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	var items []*calendar.Event
	pageToken := ""
	for {
		call := g.svc.Events.List(calendarID).
			PrivateExtendedProperty(privateProperty).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		if resp.NextPageToken == "" {
			return items, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (g *googleEvents) Delete(ctx context.Context, calendarID, eventID string) error {
	return g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}
