package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCursor is returned for a cursor this service did not issue.
var ErrInvalidCursor = errors.New("invalid change cursor")

// ChangeCursor is a position in the tenant's audit trail ordered by
// (occurredAt, seq).
type ChangeCursor struct {
	OccurredAt time.Time
	Seq        int64
}

// Encode renders the cursor as an opaque URL-safe token.
func (c ChangeCursor) Encode() string {
	raw := fmt.Sprintf("%d.%d", c.OccurredAt.UTC().UnixMicro(), c.Seq)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseChangeCursor decodes a token produced by Encode.
func ParseChangeCursor(token string) (ChangeCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ChangeCursor{}, ErrInvalidCursor
	}
	micros, seq, ok := strings.Cut(string(raw), ".")
	if !ok {
		return ChangeCursor{}, ErrInvalidCursor
	}
	at, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return ChangeCursor{}, ErrInvalidCursor
	}
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil || n < 0 {
		return ChangeCursor{}, ErrInvalidCursor
	}
	return ChangeCursor{OccurredAt: time.UnixMicro(at).UTC(), Seq: n}, nil
}
