package trade

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order number prefixes
const (
	SalesOrderPrefix    = "SO"
	PurchaseOrderPrefix = "PO"
)

// OrderNumberPrefix returns the per-day prefix, e.g. "SO-20240115-"
func OrderNumberPrefix(kind string, day time.Time) string {
	return fmt.Sprintf("%s-%s-", kind, day.Format("20060102"))
}

// FormatOrderNumber formats a sequence under a prefix, e.g. "SO-20240115-0007"
func FormatOrderNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// ParseOrderSequence extracts the sequence of a number issued under prefix
func ParseOrderSequence(number, prefix string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextOrderNumber returns the number following the highest issued number
// of the day. last is empty when none has been issued.
func NextOrderNumber(kind string, day time.Time, last string) string {
	prefix := OrderNumberPrefix(kind, day)
	seq, _ := ParseOrderSequence(last, prefix)
	return FormatOrderNumber(prefix, seq+1)
}
