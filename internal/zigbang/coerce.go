package zigbang

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/abang/internal/utils"
)

// amountUnit converts 만원 amounts to won.
const amountUnit = 10_000

// amountUnitThreshold is the value below which an amount is treated as 만원.
const amountUnitThreshold = 1000

var parkingDenials = []string{"불가", "없음", "불가능"}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return truncate(float64(n))
	case float64:
		return truncate(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}

	return 0, false
}

func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}

	return 0, false
}

func intPtr(v any) *int64 {
	if i, ok := toInt64(v); ok {
		return &i
	}
	return nil
}

func floatPtr(v any) *float64 {
	if f, ok := toFloat64(v); ok {
		return &f
	}
	return nil
}

func boolPtr(v any) *bool {
	switch b := v.(type) {
	case bool:
		return &b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return &parsed
		}
	}
	return nil
}

// text renders scalar values as strings; nil and empty strings are not text.
func text(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, s != ""
	case json.Number:
		return s.String(), true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(s), true
	}
}

func textPtr(v any) *string {
	if s, ok := text(v); ok {
		return &s
	}
	return nil
}

// truthy reports whether v carries a meaningful value.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}

	if f, ok := toFloat64(v); ok {
		return f != 0
	}
	return true
}

// firstOf returns the first truthy value stored under one of the keys.
func firstOf(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// itemID extracts a numeric item id from a scalar or an object carrying
// item_id/itemId.
func itemID(raw any) (int64, bool) {
	if m, ok := raw.(map[string]any); ok {
		raw = firstOf(m, "item_id", "itemId")
	} else if m, ok := raw.(Item); ok {
		raw = firstOf(m, "item_id", "itemId")
	}
	if raw == nil {
		return 0, false
	}
	if _, isBool := raw.(bool); isBool {
		return 0, false
	}
	return toInt64(raw)
}

func normalizeItemIDs(raw []any) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		if id, ok := itemID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// normalizeAmount converts a management fee to won. Strings are reduced to
// their first run of digits and values below 1000 are read as 만원.
func normalizeAmount(v any) *int64 {
	if v == nil {
		return nil
	}

	if s, ok := v.(string); ok {
		digits := utils.FirstNumber(s)
		if digits == "" {
			return nil
		}
		v = digits
	}

	num, ok := toInt64(v)
	if !ok {
		return nil
	}

	if num != 0 && num < amountUnitThreshold {
		num *= amountUnit
	}
	return &num
}

// parseParking reads the availability text first, then the parking count text.
func parseParking(item Item) *bool {
	for _, key := range []string{"parkingAvailableText", "parkingCountText"} {
		if !truthy(item[key]) {
			continue
		}
		s, ok := text(item[key])
		if !ok {
			continue
		}
		allowed := !utils.ContainsAny(s, parkingDenials...)
		return &allowed
	}
	return nil
}

// parsePnu keeps the digits of a parcel number.
func parsePnu(v any) *int64 {
	switch n := v.(type) {
	case nil:
		return nil
	case int, int64:
		return intPtr(n)
	}

	s, ok := text(v)
	if !ok {
		return nil
	}

	digits := utils.DigitsOnly(s)
	if digits == "" {
		return nil
	}

	parsed, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// mergeAddress joins the full address text with the jibun address without
// repeating the leading tokens they share.
func mergeAddress(fullText, jibun string) string {
	if fullText == "" || jibun == "" {
		return strings.TrimSpace(fullText + jibun)
	}

	if strings.HasPrefix(jibun, fullText) {
		return strings.TrimSpace(jibun)
	}
	if strings.HasPrefix(fullText, jibun) {
		return strings.TrimSpace(fullText)
	}

	tokens := strings.Fields(fullText)
	if len(tokens) > 1 {
		tail := strings.Join(tokens[1:], " ")
		if strings.HasPrefix(jibun, tail) {
			return strings.TrimSpace(tokens[0] + " " + jibun)
		}
	}

	return strings.TrimSpace(fullText + " " + jibun)
}

// stringList renders the truthy entries of a list; non-lists yield nil.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if !truthy(item) {
			continue
		}
		if s, ok := text(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// manageList reads a management cost list under listKey, falling back to
// altKey whose entries may be objects with name or code.
func manageList(manageCost map[string]any, listKey, altKey string) []string {
	if values, ok := manageCost[listKey].([]any); ok && len(values) > 0 {
		out := make([]string, 0, len(values))
		for _, v := range values {
			if !truthy(v) {
				continue
			}
			s, _ := text(v)
			out = append(out, strings.TrimSpace(s))
		}
		return out
	}

	alt, ok := manageCost[altKey].([]any)
	if !ok || len(alt) == 0 {
		return nil
	}

	out := make([]string, 0, len(alt))
	for _, v := range alt {
		var s string
		if m, isMap := v.(map[string]any); isMap {
			s, _ = text(firstOf(m, "name", "code"))
		} else {
			s, _ = text(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
