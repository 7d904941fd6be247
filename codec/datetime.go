package codec

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// dateTimeLayouts are tried in order; zone-less forms are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// DateTime converts between date-time text and time.Time. Decoding accepts
// RFC 3339, a space in place of the 'T', a missing zone and plain dates.
// Encoding always writes RFC 3339 in UTC without trailing zero fractions.
func DateTime() Codec[time.Time] { return dateTimeCodec{} }

type dateTimeCodec struct{}

func (dateTimeCodec) Decode(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid date-time %q", s)
}

func (dateTimeCodec) Encode(t time.Time) (string, error) {
	return t.UTC().Format(time.RFC3339Nano), nil
}
