package cache

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Key joins a request kind and its parameters into a deterministic cache key,
// e.g. Key("league:matchups", "123", "7") -> "league:matchups:123:7".
func Key(kind string, parts ...string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(strings.TrimSpace(kind))
	for _, part := range parts {
		_ = buf.WriteByte(':')
		_, _ = buf.WriteString(strings.TrimSpace(part))
	}

	return buf.String()
}
