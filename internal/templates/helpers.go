package templates

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/csg33k/employee-directory/internal/domain"
)

// itoa converts an int64 to a string, used for building URL paths.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// initials returns up to two capital letters for the avatar badge.
func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// joined renders a joining date the way the cards show it ("Jan 15, 2023").
func joined(d domain.Date) string {
	if d.IsZero() {
		return "Unknown"
	}
	return d.Format("Jan 2, 2006")
}

// listURL builds path?search=..&page=.. leaving out defaults.
func listURL(path, search string, page int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
