package logs

import (
	"bytes"
	"io"
)

type prefixer struct {
	prefix    string
	writer    io.Writer
	lineStart bool
	buf       bytes.Buffer
}

// NewPrefixer returns a writer that starts every line written to w with prefix.
// It is used to tag the stderr of spawned MCP servers.
func NewPrefixer(w io.Writer, prefix string) io.Writer {
	return &prefixer{
		prefix:    prefix,
		writer:    w,
		lineStart: true,
	}
}

func (p *prefixer) Write(payload []byte) (int, error) {
	p.buf.Reset()

	rest := payload
	for len(rest) > 0 {
		if p.lineStart {
			p.buf.WriteString(p.prefix)
			p.lineStart = false
		}

		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			p.buf.Write(rest)
			break
		}

		p.buf.Write(rest[:i+1])
		rest = rest[i+1:]
		p.lineStart = true
	}

	if _, err := p.writer.Write(p.buf.Bytes()); err != nil {
		return 0, err
	}

	return len(payload), nil
}
