package util

import "regexp"

// ticker 规则：2-10 位大写字母
var tickerRe = regexp.MustCompile(`^[A-Z]{2,10}$`)

// ValidTicker 校验标的代码格式
func ValidTicker(ticker string) bool {
	return tickerRe.MatchString(ticker)
}
