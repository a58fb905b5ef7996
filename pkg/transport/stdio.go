package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/readbuffer"
)

// StdioTransport carries newline-delimited JSON-RPC frames over a pair of
// byte streams, stdin/stdout by default. Exactly one JSON value per line,
// matching the MCP stdio transport's framing rule.
type StdioTransport struct {
	in  io.Reader
	out io.Writer

	reader *bufio.Reader
	writer *bufio.Writer
	rbuf   readbuffer.ReadBuffer

	writeMu sync.Mutex

	onClose OnCloseHandler
	closeMu sync.Mutex
	closed  bool
}

// NewStdioTransport creates a transport that reads stdin and writes stdout.
func NewStdioTransport() *StdioTransport {
	return NewStdioTransportFor(os.Stdin, os.Stdout)
}

// NewStdioTransportFor builds a transport over arbitrary reader/writer
// streams, used by tests to avoid touching the process's real stdio.
func NewStdioTransportFor(in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
	}
}

// SetOnClose registers a callback invoked once Receive observes EOF.
func (t *StdioTransport) SetOnClose(fn OnCloseHandler) {
	t.onClose = fn
}

// Start is a no-op for stdio: the underlying streams are already open.
func (t *StdioTransport) Start(ctx context.Context) error {
	return nil
}

// Receive reads bytes until one complete newline-delimited frame is
// available, skipping any blank lines.
func (t *StdioTransport) Receive(ctx context.Context) (json.RawMessage, error) {
	for {
		msg, err := t.rbuf.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msg != nil {
			return msg, nil
		}

		chunk := make([]byte, 4096)
		n, err := t.reader.Read(chunk)
		if n > 0 {
			t.rbuf.Append(chunk[:n])
		}
		if err != nil {
			if err == io.EOF {
				logger.Info("stdio transport: EOF, peer disconnected")
			} else {
				logger.Error("stdio transport: read error:", err)
			}
			t.fireClose(err)
			return nil, err
		}
	}
}

// Send writes one JSON frame terminated by a newline, flushing immediately
// so the peer sees it without buffering delay.
func (t *StdioTransport) Send(ctx context.Context, message json.RawMessage) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(message); err != nil {
		return err
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return err
	}
	return t.writer.Flush()
}

// Close marks the transport closed. Closing the underlying stdin/stdout is
// left to the process, since this transport does not own them when built
// via NewStdioTransport.
func (t *StdioTransport) Close() error {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	t.closed = true
	return nil
}

func (t *StdioTransport) fireClose(err error) {
	t.closeMu.Lock()
	already := t.closed
	t.closed = true
	t.closeMu.Unlock()
	if !already && t.onClose != nil {
		t.onClose(err)
	}
}
