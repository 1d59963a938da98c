package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gittyapp/backend/internal/domain/enums"
)

const MaxInterests = 5

var ErrTooManyInterests = errors.New("too many interests")

// InterestSet is an unordered set of at most MaxInterests catalog interests.
// The zero value is the empty set.
type InterestSet struct {
	items []enums.Interest
}

func NewInterestSet(values ...enums.Interest) (InterestSet, error) {
	var set InterestSet
	for _, v := range values {
		if !v.Valid() {
			return InterestSet{}, fmt.Errorf("interest %q: %w", v, enums.ErrUnknownValue)
		}
		if set.Contains(v) {
			continue
		}
		if len(set.items) == MaxInterests {
			return InterestSet{}, ErrTooManyInterests
		}
		set.items = append(set.items, v)
	}
	sort.Slice(set.items, func(i, j int) bool {
		return set.items[i].Rank() < set.items[j].Rank()
	})
	return set, nil
}

// ParseInterestSet decodes the comma-joined column format. Empty items are skipped.
func ParseInterestSet(raw string) (InterestSet, error) {
	parts := strings.Split(raw, ",")
	values := make([]enums.Interest, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := enums.ParseInterest(part)
		if err != nil {
			return InterestSet{}, err
		}
		values = append(values, v)
	}
	return NewInterestSet(values...)
}

func (s InterestSet) Len() int {
	return len(s.items)
}

func (s InterestSet) Contains(v enums.Interest) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

// Items returns a copy in catalog order.
func (s InterestSet) Items() []enums.Interest {
	out := make([]enums.Interest, len(s.items))
	copy(out, s.items)
	return out
}

func (s InterestSet) Labels() []string {
	out := make([]string, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.Label())
	}
	return out
}

func (s InterestSet) Equal(other InterestSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for _, item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// String is the comma-joined column format.
func (s InterestSet) String() string {
	parts := make([]string, 0, len(s.items))
	for _, item := range s.items {
		parts = append(parts, string(item))
	}
	return strings.Join(parts, ",")
}

func (s InterestSet) MarshalJSON() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []enums.Interest{}
	}
	return json.Marshal(items)
}

// UnmarshalJSON accepts a JSON array of codes, a comma-joined string, or null.
func (s *InterestSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = InterestSet{}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		parsed, err := ParseInterestSet(raw)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var codes []string
	if err := json.Unmarshal(trimmed, &codes); err != nil {
		return fmt.Errorf("decode interests: %w", err)
	}
	values := make([]enums.Interest, 0, len(codes))
	for _, code := range codes {
		v, err := enums.ParseInterest(code)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	parsed, err := NewInterestSet(values...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the set as comma-joined text; the empty set is NULL.
func (s InterestSet) Value() (driver.Value, error) {
	if len(s.items) == 0 {
		return nil, nil
	}
	return s.String(), nil
}

func (s *InterestSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = InterestSet{}
		return nil
	case string:
		parsed, err := ParseInterestSet(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("scan interests: unsupported type %T", src)
	}
}
