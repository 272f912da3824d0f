package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*小時`)
	minutePattern = regexp.MustCompile(`(\d+)\s*分鐘`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// Duration converts free-form zh-TW duration text ("1小時20分鐘", "45 分鐘")
// to whole minutes. Hour and minute tokens contribute independently, so text
// may carry either unit or both. When neither unit appears, the first bare
// integer is taken as minutes. Empty or malformed input degrades to 0: the
// text comes from an external provider, so leniency is the contract here,
// never a hard failure.
func Duration(text string) int {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	total := 0
	if m := hourPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutePattern.FindStringSubmatch(s); m != nil {
		min, _ := strconv.Atoi(m[1])
		total += min
	}

	if total == 0 {
		if m := numberPattern.FindString(s); m != "" {
			total, _ = strconv.Atoi(m)
		}
	}

	return total
}
