package core

// convert.go converts raw CSV cell values to PostgreSQL types.
//
// Conversion is deliberately lenient: an unparseable or empty value becomes
// an invalid pgtype (NULL on the wire) rather than a parse error. The store's
// NOT NULL and CHECK constraints are the authority for rejecting bad values,
// which keeps parse-time failures soft and persistence-time failures hard.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex matches integers, decimals, and scientific notation after
// cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// dateLayouts are accepted calendar-date formats, ISO first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"20060102",
}

// ToPgDate converts a string to pgtype.Date.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	return pgtype.Date{}
}

// ToPgCount converts a string to pgtype.Int4 with integer semantics.
func ToPgCount(s string) pgtype.Int4 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int4{}
	}

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}
}

// ToPgNumeric converts a string to pgtype.Numeric with decimal semantics.
// Currency symbols and thousands separators are stripped first.
func ToPgNumeric(s string) pgtype.Numeric {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Numeric{}
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{}
	}
	return n
}

// CleanCell trims whitespace, surrounding quotes, and Excel formula prefixes
// (="value") from a CSV cell.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}
