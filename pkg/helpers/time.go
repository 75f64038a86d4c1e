package helpers

import (
	"fmt"
	"time"
)

const emailDateLayout = "02 January 2006"

// FormatDate renders t for email bodies in loc (UTC when nil).
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(emailDateLayout)
}

// FormatDateTime is FormatDate with the wall clock and zone.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(emailDateLayout + ", 15:04 MST")
}

// FormatPaise renders an amount in paise as rupees, e.g. 249900 -> "₹2,499".
// Fractional rupees are shown only when present.
func FormatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	rupees, rest := paise/100, paise%100
	s := groupThousands(rupees)
	if rest != 0 {
		s = fmt.Sprintf("%s.%02d", s, rest)
	}
	return sign + "₹" + s
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
