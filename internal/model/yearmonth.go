package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// YearMonth is a calendar month without a day or timezone. Resume dates
// only carry month precision.
type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// ParseYearMonth accepts "2006-01", "2006-01-02" and RFC 3339 timestamps.
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return YearMonth{Year: t.Year(), Month: t.Month()}, nil
		}
	}
	return YearMonth{}, fmt.Errorf("invalid month value %q", s)
}

func (ym YearMonth) IsZero() bool { return ym.Year == 0 && ym.Month == 0 }

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	if ym.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ym.String())
}

func (ym *YearMonth) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*ym = YearMonth{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("month value must be a string: %w", err)
	}
	if s == "" {
		*ym = YearMonth{}
		return nil
	}
	v, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = v
	return nil
}
