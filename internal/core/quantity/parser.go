// Package quantity 負責食材數量文字的解析、單位正規化與顯示格式化
package quantity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingNumberPattern 開頭的十進位數字（123、12.5、.5），其餘視為單位文字
var leadingNumberPattern = regexp.MustCompile(`^\s*(\d*\.?\d+)\s*(.*)$`)

// Parsed 解析後的數量
type Parsed struct {
	Magnitude float64
	UnitText  string
}

// Parse 解析 "250g"、"2 cups"、".5 l" 這類文字
// 沒有開頭數字時 ok 為 false（例如 "to taste"），不會回傳錯誤
func Parse(raw string) (Parsed, bool) {
	// regexp 的 \s 只認 ASCII 空白，NBSP 之類要先去掉
	m := leadingNumberPattern.FindStringSubmatch(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if m == nil {
		return Parsed{}, false
	}
	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Parsed{}, false
	}
	return Parsed{
		Magnitude: magnitude,
		UnitText:  strings.TrimSpace(m[2]),
	}, true
}
