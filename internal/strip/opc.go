// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package strip

import (
	"fmt"
	"net"
	"time"

	"github.com/relabs-tech/lightsaber/internal/led"
)

const (
	opcSetPixels = 0x00

	opcDialTimeout  = 500 * time.Millisecond
	opcWriteTimeout = 100 * time.Millisecond
)

// OPCClient sends frames to an Open Pixel Control server (fcserver,
// LEDscape, gl_server) over TCP. The connection is opened lazily and
// dropped after any write error.
type OPCClient struct {
	addr    string
	channel byte
	conn    net.Conn
	buf     []byte
}

// NewOPCClient returns a client for the server at addr ("host:port").
func NewOPCClient(addr string, channel byte) *OPCClient {
	return &OPCClient{addr: addr, channel: channel}
}

// Push sends one set-pixel-colors message.
func (c *OPCClient) Push(pixels []led.Color) error {
	if c.conn == nil {
		conn, err := net.DialTimeout("tcp", c.addr, opcDialTimeout)
		if err != nil {
			return fmt.Errorf("opc dial %s: %w", c.addr, err)
		}
		c.conn = conn
	}

	c.buf = encodeOPC(c.buf[:0], c.channel, pixels)
	if err := c.conn.SetWriteDeadline(time.Now().Add(opcWriteTimeout)); err != nil {
		c.drop()
		return fmt.Errorf("opc deadline: %w", err)
	}
	if _, err := c.conn.Write(c.buf); err != nil {
		c.drop()
		return fmt.Errorf("opc write %s: %w", c.addr, err)
	}
	return nil
}

// Close closes the connection if one is open.
func (c *OPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *OPCClient) drop() {
	c.conn.Close()
	c.conn = nil
}

// encodeOPC appends the header (channel, command, big-endian length) and
// the RGB payload to dst.
func encodeOPC(dst []byte, channel byte, pixels []led.Color) []byte {
	n := len(pixels) * 3
	dst = append(dst, channel, opcSetPixels, byte(n>>8), byte(n))
	for _, p := range pixels {
		dst = append(dst, p.R, p.G, p.B)
	}
	return dst
}
