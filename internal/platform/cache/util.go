package cache

import (
	"strings"
	"time"
)

// BrusselsLocation はベルギーのタイムゾーンを返します。tzdataが無い環境ではUTCを返します。
func BrusselsLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimeUntilNextMidnight はlocにおけるnowから次の午前0時までの期間を返します。
func TimeUntilNextMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.Sub(local)
}

// safe はRedisキーで問題となる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
