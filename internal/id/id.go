package id

import (
	"fmt"
	"strconv"
	"strings"
)

// RepaymentPrefix starts every repayment entry ID.
const RepaymentPrefix = "R"

// FormatRepaymentID returns an entry ID like "R001".
func FormatRepaymentID(seq int) string {
	return fmt.Sprintf("%s%03d", RepaymentPrefix, seq)
}

// ParseRepaymentID parses "R001" into its sequence number.
func ParseRepaymentID(id string) (int, error) {
	rest, ok := strings.CutPrefix(strings.ToUpper(strings.TrimSpace(id)), RepaymentPrefix)
	if !ok || rest == "" {
		return 0, fmt.Errorf("invalid repayment ID format: %q", id)
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in repayment ID %q: %w", id, err)
	}
	if seq <= 0 {
		return 0, fmt.Errorf("invalid sequence in repayment ID %q: must be positive", id)
	}
	return seq, nil
}

// NextSeq returns one past the highest sequence among ids. Unparsable IDs are skipped.
func NextSeq(ids []string) int {
	maxSeq := 0
	for _, s := range ids {
		seq, err := ParseRepaymentID(s)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
