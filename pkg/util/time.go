package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses duration strings with a day suffix in addition to time.ParseDuration units
// ParseDuration 解析时长字符串，在 time.ParseDuration 的基础上支持 d（天）后缀
// 支持格式：7d（天）、24h（小时）、30m（分钟）、10s（秒）
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q: %w", s, err)
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}

	return time.ParseDuration(s)
}
