package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"

	"warden/internal/providers"
	"warden/internal/structures"
)

const defaultRequestTimeout = 10 * time.Second

// RestClient talks to a chat-platform HTTP API: plain REST for outbound calls
// and a long-poll loop for the inbound event stream.
type RestClient struct {
	base    string
	guildID string
	token   string
	http    *http.Client
	logger  providers.Logger
	handler EventHandler
	ready   atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewRestClient(conf *structures.Config, logger providers.Logger) *RestClient {
	timeout := conf.Platform.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &RestClient{
		base:    conf.Platform.BaseURL,
		guildID: conf.Platform.GuildID,
		token:   conf.Platform.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Ready reports whether the event stream is connected.
func (c *RestClient) Ready() bool { return c.ready.Load() }

func (c *RestClient) Subscribe(h EventHandler) { c.handler = h }

func (c *RestClient) Open(ctx context.Context) error {
	if c.token == "" {
		return fmt.Errorf("platform: missing token")
	}
	// Verify the token and guild before starting the loop.
	if _, err := c.Members(ctx); err != nil {
		return fmt.Errorf("platform: connect check failed: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.eventLoop(loopCtx)
	return nil
}

func (c *RestClient) Close() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	c.ready.Store(false)
	return nil
}

func (c *RestClient) SendMessage(ctx context.Context, channelID, content string) error {
	return c.post(ctx, "/channels/"+channelID+"/messages", map[string]string{"content": content}, nil)
}

func (c *RestClient) SendEmbed(ctx context.Context, channelID string, embed *Embed) error {
	return c.post(ctx, "/channels/"+channelID+"/messages", map[string]any{"embed": embed}, nil)
}

func (c *RestClient) SendFile(ctx context.Context, channelID, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	payload := map[string]any{"file_name": name, "file_data": data}
	return c.post(ctx, "/channels/"+channelID+"/files", payload, nil)
}

func (c *RestClient) SendDM(ctx context.Context, userID, content string) error {
	return c.post(ctx, "/users/"+userID+"/messages", map[string]string{"content": content}, nil)
}

func (c *RestClient) PurgeMessages(ctx context.Context, channelID string, count int) error {
	payload := map[string]int{"count": count}
	return c.post(ctx, "/channels/"+channelID+"/messages/purge", payload, nil)
}

func (c *RestClient) Member(ctx context.Context, userID string) (*Member, error) {
	var m Member
	if err := c.get(ctx, c.guildPath("members/"+userID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *RestClient) Members(ctx context.Context) ([]*Member, error) {
	var ms []*Member
	if err := c.get(ctx, c.guildPath("members"), nil, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (c *RestClient) Role(ctx context.Context, roleID string) (*Role, error) {
	var r Role
	if err := c.get(ctx, c.guildPath("roles/"+roleID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *RestClient) Channel(ctx context.Context, channelID string) (*Channel, error) {
	var ch Channel
	if err := c.get(ctx, "/channels/"+channelID, nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *RestClient) Presence(ctx context.Context, userID string) (PresenceStatus, error) {
	var resp struct {
		Status PresenceStatus `json:"status"`
	}
	if err := c.get(ctx, c.guildPath("presences/"+userID), nil, &resp); err != nil {
		return StatusOffline, err
	}
	return resp.Status, nil
}

func (c *RestClient) AddRole(ctx context.Context, userID, roleID string) error {
	return c.put(ctx, c.guildPath("members/"+userID+"/roles/"+roleID))
}

func (c *RestClient) RemoveRole(ctx context.Context, userID, roleID string) error {
	return c.delete(ctx, c.guildPath("members/"+userID+"/roles/"+roleID))
}

func (c *RestClient) AuditLog(ctx context.Context, action AuditAction, limit int) ([]AuditEntry, error) {
	q := url.Values{}
	q.Set("action", string(action))
	q.Set("limit", fmt.Sprintf("%d", limit))
	var entries []AuditEntry
	if err := c.get(ctx, c.guildPath("audit-log"), q, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *RestClient) guildPath(suffix string) string {
	return "/guilds/" + c.guildID + "/" + suffix
}

type eventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type eventBatch struct {
	Cursor string          `json:"cursor"`
	Events []eventEnvelope `json:"events"`
}

func (c *RestClient) eventLoop(ctx context.Context) {
	defer close(c.done)

	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch, err := c.pollEvents(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.ready.Store(false)
			c.logger.Warnf(providers.TypeEvent, "event poll failed, retrying: %s", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		if !c.ready.Load() {
			c.ready.Store(true)
			if c.handler != nil {
				c.handler.HandleReady(time.Now())
			}
		}
		cursor = batch.Cursor
		for _, env := range batch.Events {
			c.dispatch(env)
		}
	}
}

func (c *RestClient) pollEvents(ctx context.Context, cursor string) (*eventBatch, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("after", cursor)
	}
	q.Set("wait", "25")
	var batch eventBatch
	if err := c.get(ctx, c.guildPath("events"), q, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (c *RestClient) dispatch(env eventEnvelope) {
	if c.handler == nil {
		return
	}
	var err error
	switch env.Type {
	case "message_create":
		var ev Message
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleMessageCreate(ev)
		}
	case "message_update":
		var ev MessageUpdate
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleMessageUpdate(ev)
		}
	case "message_delete":
		var ev MessageDelete
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleMessageDelete(ev)
		}
	case "message_bulk_delete":
		var ev MessageBulkDelete
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleMessageBulkDelete(ev)
		}
	case "member_update":
		var ev MemberUpdate
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleMemberUpdate(ev)
		}
	case "role_update":
		var ev RoleUpdate
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleRoleUpdate(ev)
		}
	case "channel_update":
		var ev ChannelUpdate
		if err = json.Unmarshal(env.Data, &ev); err == nil {
			c.handler.HandleChannelUpdate(ev)
		}
	default:
		c.logger.Debugf(providers.TypeEvent, "ignoring unknown event type %q", env.Type)
	}
	if err != nil {
		c.logger.Warnf(providers.TypeEvent, "malformed %s event: %s", env.Type, err)
	}
}

func (c *RestClient) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *RestClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *RestClient) put(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *RestClient) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *RestClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bot "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s %s", ErrPermissionDenied, req.Method, req.URL.Path)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, req.Method, req.URL.Path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s %s", ErrRateLimited, req.Method, req.URL.Path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("platform: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
