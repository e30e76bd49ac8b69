package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hour is an hour of day. The backend sends it as a number (9) or as a
// label ("9", "09:00"); both decode to the same value.
type Hour int

func (h *Hour) UnmarshalJSON(b []byte) error {
	if !bytes.HasPrefix(b, []byte(`"`)) {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("hour must be a number or a label: %w", err)
		}
		*h = Hour(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	label := strings.TrimSpace(s)
	if i := strings.IndexByte(label, ':'); i >= 0 {
		label = label[:i]
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return fmt.Errorf("cannot parse hour %q", s)
	}
	*h = Hour(n)
	return nil
}
