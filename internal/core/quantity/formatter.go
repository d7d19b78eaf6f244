package quantity

import (
	"math"
	"strconv"
	"strings"
)

// Format 將正規化數量轉為顯示文字
// g、ml 滿 1000 時改用 kg、l；件數取整數；其他單位保留兩位小數並附上單位
func Format(magnitude *float64, unit string) string {
	if magnitude == nil {
		return ""
	}
	qty := *magnitude

	switch strings.ToLower(unit) {
	case UnitGram:
		if qty >= 1000 {
			return formatRounded(qty/1000, 2) + " kg"
		}
		return formatRounded(qty, 2) + " g"
	case UnitMilliliter:
		if qty >= 1000 {
			return formatRounded(qty/1000, 2) + " l"
		}
		return formatRounded(qty, 2) + " ml"
	case UnitCount:
		return formatRounded(qty, 0)
	}
	return formatRounded(qty, 2) + " " + unit
}

// formatRounded 四捨五入到指定小數位後以最短形式輸出（2.50 -> 2.5）
func formatRounded(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // 避免輸出 -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
