package quantity

import "strings"

// 基準單位
const (
	UnitGram       = "g"
	UnitMilliliter = "ml"
	UnitCount      = "" // 件數，無單位
)

// aliases 各種寫法對應到標準短單位
var aliases = map[string]string{
	"kilogram":    "kg",
	"kilograms":   "kg",
	"kg":          "kg",
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"l":           "l",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"tbsp":        "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tsp":         "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"cup":         "cup",
	"cups":        "cup",
	"pcs":         "pc",
	"pc":          "pc",
	"piece":       "pc",
	"pieces":      "pc",
}

// 換算成基準單位的倍率
var (
	massFactors = map[string]float64{
		"kg": 1000,
		"g":  1,
		"mg": 0.001,
	}
	volumeFactors = map[string]float64{
		"l":    1000,
		"ml":   1,
		"tbsp": 15,
		"tsp":  5,
		"cup":  240,
	}
)

// Normalized 正規化後的數量；Magnitude 為 nil 代表數量未知但食材仍需列出
type Normalized struct {
	Magnitude *float64
	Unit      string
}

// CanonicalUnit 回傳單位文字對應的標準短單位（小寫、去空白、套用別名）
func CanonicalUnit(unitText string) string {
	u := strings.ToLower(strings.TrimSpace(unitText))
	if mapped, ok := aliases[u]; ok {
		return mapped
	}
	return u
}

// Normalize 將數量換算為 g、ml 或件數
// 未知單位原樣保留；magnitude 為 nil 時單位文字不經別名對應直接回傳
func Normalize(magnitude *float64, unitText string) Normalized {
	if magnitude == nil {
		return Normalized{Unit: unitText}
	}
	mapped := CanonicalUnit(unitText)
	value := *magnitude

	if factor, ok := massFactors[mapped]; ok {
		value *= factor
		return Normalized{Magnitude: &value, Unit: UnitGram}
	}
	if factor, ok := volumeFactors[mapped]; ok {
		value *= factor
		return Normalized{Magnitude: &value, Unit: UnitMilliliter}
	}
	if mapped == "pc" {
		return Normalized{Magnitude: &value, Unit: UnitCount}
	}
	return Normalized{Magnitude: &value, Unit: mapped}
}

// NormalizeValue 同 Normalize，接受非指標數值
func NormalizeValue(magnitude float64, unitText string) Normalized {
	return Normalize(&magnitude, unitText)
}
