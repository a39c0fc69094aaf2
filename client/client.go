// Package client talks to a running chime daemon over JSON-RPC.
package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/ayoisaiah/chime/daemon"
	"github.com/ayoisaiah/chime/internal/apperr"
	"github.com/ayoisaiah/chime/internal/server"
	"github.com/ayoisaiah/chime/scheduler"
)

var (
	errUnreachable = &apperr.Error{
		Message: "unable to reach the chime daemon at %s: is it running?",
	}

	errCall = &apperr.Error{
		Message: "%s failed",
	}
)

// Event is a notification pushed by the daemon.
type Event struct {
	Name string
	Args []any
}

// Client is a JSON-RPC client for the daemon.
type Client struct {
	rpc  *jrpc2.Client
	done chan struct{}
	addr string
}

type bearerClient struct {
	base   *http.Client
	secret string
}

func (c bearerClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.secret)
	return c.base.Do(req)
}

func rpcURL(scheme, addr, path string) string {
	u := url.URL{Scheme: scheme, Host: addr, Path: path}
	return u.String()
}

// NewHTTP returns a request/response client for the daemon at addr.
func NewHTTP(addr, secret string) *Client {
	ch := jhttp.NewChannel(rpcURL("http", addr, server.PathRPC), &jhttp.ChannelOptions{
		Client: bearerClient{base: http.DefaultClient, secret: secret},
	})

	return &Client{rpc: jrpc2.NewClient(ch, nil), addr: addr, done: make(chan struct{})}
}

// Dial opens a websocket session with the daemon at addr. Every event the
// daemon emits is passed to onEvent until the session is closed.
func Dial(
	ctx context.Context,
	addr, secret string,
	onEvent func(Event),
) (*Client, error) {
	conn, _, err := cws.Dial(ctx, rpcURL("ws", addr, server.PathWebSocket), &cws.DialOptions{
		HTTPHeader: http.Header{
			"Authorization": []string{"Bearer " + secret},
		},
	})
	if err != nil {
		return nil, errUnreachable.Fmt(addr).Wrap(err)
	}

	done := make(chan struct{})

	opts := &jrpc2.ClientOptions{
		OnStop: func(*jrpc2.Client, error) {
			close(done)
		},
	}

	if onEvent != nil {
		opts.OnNotify = func(req *jrpc2.Request) {
			var args []any

			_ = req.UnmarshalParams(&args)

			onEvent(Event{Name: req.Method(), Args: args})
		}
	}

	// the session outlives the dial context
	ch := server.NewWSChannel(context.Background(), conn)

	return &Client{rpc: jrpc2.NewClient(ch, opts), addr: addr, done: done}, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// Wait blocks until a websocket session ends.
func (c *Client) Wait() {
	<-c.done
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	var err error

	if result == nil {
		_, err = c.rpc.Call(ctx, method, params)
	} else {
		err = c.rpc.CallResult(ctx, method, params, result)
	}

	if err == nil {
		return nil
	}

	var rpcErr *jrpc2.Error
	if errors.As(err, &rpcErr) {
		return errCall.Fmt(method).Wrap(errors.New(rpcErr.Message))
	}

	return errUnreachable.Fmt(c.addr).Wrap(err)
}

// Version returns the daemon version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v server.VersionResult

	err := c.call(ctx, "system.getVersion", nil, &v)

	return v.Version, err
}

func (c *Client) StartTimer(ctx context.Context, seconds float64) error {
	return c.call(ctx, "startTimer", []any{seconds}, nil)
}

func (c *Client) CancelTimer(ctx context.Context) error {
	return c.call(ctx, "cancelTimer", nil, nil)
}

func (c *Client) Recents(ctx context.Context) ([]float64, error) {
	var recents []float64

	err := c.call(ctx, "loadRecents", nil, &recents)

	return recents, err
}

func (c *Client) Remaining(ctx context.Context) (float64, error) {
	var remaining float64

	err := c.call(ctx, "loadRemainingSeconds", nil, &remaining)

	return remaining, err
}

func (c *Client) Status(ctx context.Context) (daemon.Status, error) {
	var status daemon.Status

	err := c.call(ctx, "getStatus", nil, &status)

	return status, err
}

func (c *Client) SetSubtleMode(ctx context.Context, enabled bool) error {
	return c.call(ctx, "setSubtleMode", []any{enabled}, nil)
}

func (c *Client) SubtleMode(ctx context.Context) (bool, error) {
	var subtle bool

	err := c.call(ctx, "loadSubtleMode", nil, &subtle)

	return subtle, err
}

func (c *Client) SetAlarm(ctx context.Context, slot, hour, minute int) error {
	return c.call(ctx, "setAlarm", []any{slot, hour, minute}, nil)
}

func (c *Client) SetAlarmLabel(ctx context.Context, slot int, label string) error {
	return c.call(ctx, "setAlarmLabel", []any{slot, label}, nil)
}

func (c *Client) ToggleAlarm(ctx context.Context, slot int, enabled bool) error {
	return c.call(ctx, "toggleAlarm", []any{slot, enabled}, nil)
}

func (c *Client) Alarms(ctx context.Context) (scheduler.Alarms, error) {
	var alarms scheduler.Alarms

	err := c.call(ctx, "getAlarms", nil, &alarms)

	return alarms, err
}

func (c *Client) SetIntervalTimer(
	ctx context.Context,
	startHour, startMinute, endHour, endMinute int,
) error {
	return c.call(
		ctx,
		"setIntervalTimer",
		[]any{startHour, startMinute, endHour, endMinute},
		nil,
	)
}

func (c *Client) SetIntervalRate(ctx context.Context, every, lateEvery int) error {
	return c.call(ctx, "setIntervalRate", []any{every, lateEvery}, nil)
}

func (c *Client) ToggleIntervalTimer(ctx context.Context, enabled bool) error {
	return c.call(ctx, "toggleIntervalTimer", []any{enabled}, nil)
}

func (c *Client) IntervalTimer(ctx context.Context) (scheduler.IntervalConfig, error) {
	var iv scheduler.IntervalConfig

	err := c.call(ctx, "getIntervalTimer", nil, &iv)

	return iv, err
}
