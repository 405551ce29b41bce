// Package shim implements the host capability interfaces over a stream
// socket speaking the wire frame protocol. Each host object is addressed by
// an opaque uint64 handle the shim allocates; handles stop resolving when
// the host drops the underlying object, which surfaces as host.ErrStale.
package shim

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/host/wire"
	"github.com/framefold/resolvebridge/internal/platform/timeouts"
)

// rootHandle addresses the host application object itself.
const rootHandle = 0

// defaultCallTimeout bounds one shim call when the caller's context carries
// no deadline. A host that stops responding must surface as unavailable,
// never as a hang inside dispatch.
const defaultCallTimeout = timeouts.HostCall

// Client is a host connection backed by one shim socket. Calls are
// serialized on the socket; the dispatch router already serializes mutating
// operations, and concurrent read-only queries simply queue here.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	nextID uint64
	closed bool
}

// Dial connects to the host scripting shim at addr (host:port or a unix
// socket path containing a '/').
func Dial(ctx context.Context, addr string) (*Client, error) {
	network := "tcp"
	if containsSlash(addr) {
		network = "unix"
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", host.ErrUnavailable, addr, err)
	}
	return &Client{conn: conn}, nil
}

func containsSlash(s string) bool {
	for _, r := range s {
		if r == '/' {
			return true
		}
	}
	return false
}

// newClient wraps an established connection; tests use it with net.Pipe.
func newClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

// call performs one request/response exchange.
func (c *Client) call(ctx context.Context, target uint64, method string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("%w: connection closed", host.ErrUnavailable)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultCallTimeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: set deadline: %v", host.ErrUnavailable, err)
	}

	c.nextID++
	request := wire.Request(c.nextID, target, method, args...)
	if err := wire.WriteFrame(c.conn, request); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", host.ErrUnavailable, method, err)
	}
	reply, err := wire.ReadFrame(c.conn)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s reply: %v", host.ErrUnavailable, method, err)
	}
	if reply.ID != request.ID {
		return nil, fmt.Errorf("%w: reply id %d for request %d", host.ErrUnavailable, reply.ID, request.ID)
	}
	switch reply.Type {
	case wire.FrameResponse:
		return reply.Result, nil
	case wire.FrameError:
		return nil, shimError(method, reply.ErrKind, reply.ErrMsg)
	default:
		return nil, fmt.Errorf("%w: unexpected frame type %d", host.ErrUnavailable, reply.Type)
	}
}

// shimError maps a wire error kind onto the host sentinel errors.
func shimError(method, kind, msg string) error {
	switch kind {
	case wire.ErrKindStale:
		return fmt.Errorf("%w: %s: %s", host.ErrStale, method, msg)
	case wire.ErrKindUnsupported:
		return fmt.Errorf("%w: %s: %s", host.ErrUnsupported, method, msg)
	case wire.ErrKindUnknownProperty:
		return fmt.Errorf("%w: %s: %s", host.ErrUnknownProperty, method, msg)
	default:
		return fmt.Errorf("host fault in %s: %s", method, msg)
	}
}

// Ping verifies the shim is responsive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, rootHandle, "Ping")
	return err
}

// ProjectManager returns the host's project manager.
func (c *Client) ProjectManager(ctx context.Context) (host.ProjectManager, error) {
	h, err := c.callHandle(ctx, rootHandle, "GetProjectManager")
	if err != nil {
		return nil, err
	}
	return &projectManager{c: c, h: h}, nil
}

// MediaStorage returns the host's media storage.
func (c *Client) MediaStorage(ctx context.Context) (host.MediaStorage, error) {
	h, err := c.callHandle(ctx, rootHandle, "GetMediaStorage")
	if err != nil {
		return nil, err
	}
	return &mediaStorage{c: c, h: h}, nil
}

// Fusion returns the host's compositing surface.
func (c *Client) Fusion(ctx context.Context) (host.Fusion, error) {
	h, err := c.callHandle(ctx, rootHandle, "GetFusion")
	if err != nil {
		return nil, err
	}
	return &fusion{c: c, h: h}, nil
}

// CurrentPage reports the host's active page.
func (c *Client) CurrentPage(ctx context.Context) (host.Page, error) {
	s, err := c.callString(ctx, rootHandle, "GetCurrentPage")
	if err != nil {
		return "", err
	}
	return host.Page(s), nil
}

// OpenPage switches the host's active page.
func (c *Client) OpenPage(ctx context.Context, page host.Page) error {
	_, err := c.call(ctx, rootHandle, "OpenPage", string(page))
	return err
}

// Play starts playback.
func (c *Client) Play(ctx context.Context) error {
	_, err := c.call(ctx, rootHandle, "Play")
	return err
}

// Stop stops playback.
func (c *Client) Stop(ctx context.Context) error {
	_, err := c.call(ctx, rootHandle, "Stop")
	return err
}

// CurrentTimecode reports the playhead timecode.
func (c *Client) CurrentTimecode(ctx context.Context) (string, error) {
	return c.callString(ctx, rootHandle, "GetCurrentTimecode")
}

// Close shuts the shim socket down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Typed call helpers. Validation that the shim returned the declared shape
// happens here so object wrappers stay one-liners.

func (c *Client) callHandle(ctx context.Context, target uint64, method string, args ...any) (uint64, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return 0, err
	}
	h, ok := asUint(result)
	if !ok {
		return 0, fmt.Errorf("host fault in %s: result %T is not a handle", method, result)
	}
	return h, nil
}

func (c *Client) callString(ctx context.Context, target uint64, method string, args ...any) (string, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("host fault in %s: result %T is not a string", method, result)
	}
	return s, nil
}

func (c *Client) callBool(ctx context.Context, target uint64, method string, args ...any) (bool, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("host fault in %s: result %T is not a bool", method, result)
	}
	return b, nil
}

func (c *Client) callInt(ctx context.Context, target uint64, method string, args ...any) (int, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return 0, err
	}
	n, ok := asInt(result)
	if !ok {
		return 0, fmt.Errorf("host fault in %s: result %T is not an integer", method, result)
	}
	return n, nil
}

func (c *Client) callFloat(ctx context.Context, target uint64, method string, args ...any) (float64, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return 0, err
	}
	f, ok := asFloat(result)
	if !ok {
		return 0, fmt.Errorf("host fault in %s: result %T is not a number", method, result)
	}
	return f, nil
}

func (c *Client) callStrings(ctx context.Context, target uint64, method string, args ...any) ([]string, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return nil, err
	}
	return asStrings(result, method)
}

func (c *Client) callStringMap(ctx context.Context, target uint64, method string, args ...any) (map[string]string, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return map[string]string{}, nil
	}
	raw, ok := result.(map[any]any)
	if !ok {
		if typed, isTyped := result.(map[string]any); isTyped {
			out := make(map[string]string, len(typed))
			for k, v := range typed {
				out[k] = fmt.Sprint(v)
			}
			return out, nil
		}
		return nil, fmt.Errorf("host fault in %s: result %T is not a map", method, result)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("host fault in %s: non-string map key %v", method, k)
		}
		out[key] = fmt.Sprint(v)
	}
	return out, nil
}

func (c *Client) callHandles(ctx context.Context, target uint64, method string, args ...any) ([]uint64, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	raw, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("host fault in %s: result %T is not a list", method, result)
	}
	handles := make([]uint64, 0, len(raw))
	for _, item := range raw {
		h, ok := asUint(item)
		if !ok {
			return nil, fmt.Errorf("host fault in %s: list item %T is not a handle", method, item)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case uint64:
		return int(n), true
	case int64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asStrings(result any, method string) ([]string, error) {
	if result == nil {
		return nil, nil
	}
	raw, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("host fault in %s: result %T is not a list", method, result)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("host fault in %s: list item %T is not a string", method, item)
		}
		out = append(out, s)
	}
	return out, nil
}
