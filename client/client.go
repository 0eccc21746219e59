// Package client runs user operations against the persisted model and the
// sync transport.
//
// Every mutation is saved before any network activity, so a failed or
// interrupted sync never loses a change: the command stays queued and the
// next sync retries it. A sync only writes to disk after a complete response
// has been folded into the model.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/amonks/tuido/internal/logging"
	"github.com/amonks/tuido/model"
	"github.com/amonks/tuido/syncapi"
)

// DefaultTimeout bounds one sync exchange when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// SyncMode selects whether and how an operation talks to the server.
type SyncMode int

const (
	// NoSync keeps the operation local.
	NoSync SyncMode = iota

	// Incremental sends the stored sync token.
	Incremental

	// Full asks the server for everything.
	Full
)

func (mode SyncMode) String() string {
	switch mode {
	case NoSync:
		return "none"
	case Incremental:
		return "incremental"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("SyncMode(%d)", int(mode))
	}
}

// Store loads and saves the model. Save follows a local mutation and
// SaveSynced follows an applied sync response; each orders its writes so an
// interruption cannot strand an item on a temporary ID.
type Store interface {
	Load() (*model.Model, error)
	Save(*model.Model) error
	SaveSynced(*model.Model) error
}

// Options configures a Client.
type Options struct {
	// Logger receives sync progress and rejected commands. Nil discards.
	Logger *log.Logger

	// FullSyncPolicy decides what a full sync does with unconfirmed local
	// items. Empty means model.PolicyReplace.
	FullSyncPolicy model.FullSyncPolicy

	// Progress receives the "Syncing... Done." status line.
	Progress io.Writer

	// Timeout bounds each sync exchange.
	Timeout time.Duration

	// Saved is called with the changed item once a mutation is durable and
	// before any sync runs.
	Saved func(model.Item)
}

// Client runs operations.
type Client struct {
	store     Store
	transport syncapi.Transport
	logger    *log.Logger
	policy    model.FullSyncPolicy
	progress  io.Writer
	timeout   time.Duration
	saved     func(model.Item)
}

// New creates a client. transport is only used by operations that sync.
func New(store Store, transport syncapi.Transport, opts Options) *Client {
	policy := opts.FullSyncPolicy
	if policy == "" {
		policy = model.PolicyReplace
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		store:     store,
		transport: transport,
		logger:    logger,
		policy:    policy,
		progress:  progress,
		timeout:   timeout,
		saved:     opts.Saved,
	}
}

// Model loads the current model for read-only use.
func (c *Client) Model() (*model.Model, error) {
	return c.store.Load()
}

// Add creates an inbox item, saves it, then syncs according to mode.
//
// If the inbox project is not known yet and mode allows syncing, the user is
// fetched from the server first. A failure of the sync that follows the save
// is returned as a *SyncError alongside the created item.
func (c *Client) Add(ctx context.Context, content string, mode SyncMode) (model.Item, error) {
	m, err := c.store.Load()
	if err != nil {
		return model.Item{}, err
	}

	item, err := m.AddTodo(content)
	if errors.Is(err, model.ErrInboxUnknown) && mode != NoSync {
		if err := c.bootstrap(ctx, m); err != nil {
			return model.Item{}, fmt.Errorf("learn inbox project: %w", err)
		}
		item, err = m.AddTodo(content)
	}
	if err != nil {
		return model.Item{}, err
	}

	if err := c.store.Save(m); err != nil {
		return model.Item{}, err
	}
	c.logf("added item %s to project %s", item.ID, item.ProjectID)
	c.notifySaved(item)

	return item, c.syncAfterMutation(ctx, m, mode)
}

// Complete marks the inbox item at display index n complete, saves, then
// syncs according to mode. Sync failures are returned as a *SyncError.
func (c *Client) Complete(ctx context.Context, n int, mode SyncMode) (model.Item, error) {
	m, err := c.store.Load()
	if err != nil {
		return model.Item{}, err
	}

	item, err := m.CompleteTodo(n)
	if err != nil {
		return model.Item{}, err
	}

	if err := c.store.Save(m); err != nil {
		return model.Item{}, err
	}
	c.logf("completed item %s", item.ID)
	c.notifySaved(item)

	return item, c.syncAfterMutation(ctx, m, mode)
}

// Sync runs one exchange with the server and saves the result. mode must be
// Incremental or Full.
func (c *Client) Sync(ctx context.Context, mode SyncMode) (model.UpdateResult, error) {
	if mode != Incremental && mode != Full {
		return model.UpdateResult{}, fmt.Errorf("invalid sync mode %s", mode)
	}
	m, err := c.store.Load()
	if err != nil {
		return model.UpdateResult{}, err
	}
	return c.sync(ctx, m, mode)
}

func (c *Client) syncAfterMutation(ctx context.Context, m *model.Model, mode SyncMode) error {
	if mode == NoSync {
		return nil
	}
	if _, err := c.sync(ctx, m, mode); err != nil {
		return &SyncError{Err: err}
	}
	return nil
}

func (c *Client) sync(ctx context.Context, m *model.Model, mode SyncMode) (model.UpdateResult, error) {
	if c.transport == nil {
		return model.UpdateResult{}, fmt.Errorf("no sync transport configured")
	}

	request := m.IncrementalSyncRequest()
	if mode == Full {
		request = m.FullSyncRequest()
	}

	fmt.Fprint(c.progress, "Syncing... ")
	c.logf("%s sync started: token=%s commands=%d", mode, request.SyncToken, len(request.Commands))

	response, err := c.exchange(ctx, request)
	if err != nil {
		fmt.Fprintln(c.progress, "Failed.")
		c.logf("%s sync failed: %v", mode, err)
		return model.UpdateResult{}, err
	}

	result := m.UpdateWithPolicy(*response, c.policy)
	for _, failure := range result.Failures {
		c.logf("command %s (%s) rejected: %s", failure.UUID, failure.Type, failure.Status)
	}

	if err := c.store.SaveSynced(m); err != nil {
		fmt.Fprintln(c.progress, "Failed.")
		return model.UpdateResult{}, err
	}
	fmt.Fprintln(c.progress, "Done.")

	c.logf("%s sync finished: full=%t acknowledged=%d remapped=%d/%d kept=%d pending=%d",
		mode, result.FullSync, result.Acknowledged, result.Remapped, result.RemappedCommands, result.Kept, m.Commands.Len())
	return result, nil
}

// bootstrap learns the user, and with it the inbox project, without
// touching the cursor, items or queue.
func (c *Client) bootstrap(ctx context.Context, m *model.Model) error {
	if c.transport == nil {
		return fmt.Errorf("no sync transport configured")
	}
	c.logf("inbox project unknown, fetching user")
	response, err := c.exchange(ctx, model.BootstrapRequest())
	if err != nil {
		return err
	}
	if response.User == nil || !response.User.HasInbox() {
		return fmt.Errorf("server response has no inbox project")
	}
	m.User = *response.User
	return nil
}

func (c *Client) exchange(ctx context.Context, request model.Request) (*model.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.transport.Sync(ctx, request)
}

func (c *Client) notifySaved(item model.Item) {
	if c.saved != nil {
		c.saved(item)
	}
}

func (c *Client) logf(format string, args ...any) {
	c.logger.Printf(format, args...)
}
