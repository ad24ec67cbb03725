package booking

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"tennis-booking/internal/models"
)

// normalizeToken folds case and treats spaces and hyphens as underscores, so
// "Ball Machine", "ball-machine" and "BALL_MACHINE" compare equal.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// CoerceEnum maps v onto one of allowed. ok is false for nil, non-strings and
// strings that match no declared value.
func CoerceEnum[T ~string](v interface{}, allowed []T) (T, bool) {
	var zero T
	s, isString := v.(string)
	if !isString {
		return zero, false
	}
	token := normalizeToken(s)
	for _, candidate := range allowed {
		if normalizeToken(string(candidate)) == token {
			return candidate, true
		}
	}
	return zero, false
}

// CoerceInt accepts JSON numbers with no fractional part and numeric strings.
func CoerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// CoerceBool accepts booleans and the usual yes/no spellings.
func CoerceBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y":
			return true, true
		case "false", "no", "n":
			return false, true
		}
	}
	return false, false
}

// CoerceText returns trimmed non-empty strings only.
func CoerceText(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// CoerceEquipment maps a list (or a comma separated string) of equipment
// names. A single unmappable element rejects the whole list. Duplicates are
// collapsed keeping first-seen order.
func CoerceEquipment(v interface{}) ([]models.Equipment, bool) {
	var items []interface{}
	switch list := v.(type) {
	case []interface{}:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	case string:
		for _, part := range strings.Split(list, ",") {
			items = append(items, part)
		}
	default:
		return nil, false
	}

	out := make([]models.Equipment, 0, len(items))
	seen := make(map[models.Equipment]bool, len(items))
	for _, item := range items {
		e, ok := CoerceEnum(item, models.EquipmentItems)
		if !ok {
			return nil, false
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out, true
}
