package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemID identifies a product inside a cart. It is either numeric or a string,
// and the two kinds never compare equal: IntID(1) != StringID("1").
type ItemID struct {
	value   string
	numeric bool
}

func IntID(n int64) ItemID {
	return ItemID{value: strconv.FormatInt(n, 10), numeric: true}
}

func StringID(s string) ItemID {
	return ItemID{value: s}
}

// ParseItemID reads an id from text such as a URL path segment. Text that is
// a JSON number becomes the numeric id the same JSON would decode to, so "1.50"
// and 1.5 name the same item. Anything else is a string id.
func ParseItemID(s string) ItemID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}

	var id ItemID
	if isJSONNumber(s) && id.UnmarshalJSON([]byte(s)) == nil {
		return id
	}
	return StringID(s)
}

func (id ItemID) String() string {
	return id.value
}

func (id ItemID) IsZero() bool {
	return id.value == ""
}

func (id ItemID) IsNumeric() bool {
	return id.numeric
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("id is empty")
		}
		*id = StringID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}

	// canonical text so that 1 and 1.0 name the same item
	d, err := ParseDecimal(n.String())
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ItemID{value: d.String(), numeric: true}

	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}
