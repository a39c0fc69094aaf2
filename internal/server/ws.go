package server

import (
	"context"
	"time"

	cws "github.com/coder/websocket"
)

// writeTimeout bounds a single websocket write. A client that stops reading
// has its connection closed once a write times out.
var writeTimeout = 5 * time.Second

// WSChannel adapts a websocket connection to the jrpc2 Channel interface.
// It is used on both ends of the /rpc/ws endpoint.
type WSChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// NewWSChannel returns a channel over conn. Reads and writes fail once ctx is
// done.
func NewWSChannel(ctx context.Context, conn *cws.Conn) *WSChannel {
	return &WSChannel{conn: conn, ctx: ctx}
}

func (c *WSChannel) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()

	return c.conn.Write(ctx, cws.MessageText, data)
}

func (c *WSChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *WSChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}
