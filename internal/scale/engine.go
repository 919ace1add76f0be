// Package scale scores answer sets against a scale definition and maps
// totals to interpretation bands. All functions are pure.
package scale

import (
	"fmt"

	"jfk-emergence-service/internal/domain"
)

// ComputeTotal sums the recorded value of every item in definition order.
// Unanswered items contribute 0. Values are not clamped.
func ComputeTotal(def domain.ScaleDefinition, answers domain.AnswerSet) int {
	total := 0
	for _, item := range def.Items {
		total += answers[item.ID]
	}
	return total
}

// MaxScore is the sum of every item's maximum points.
func MaxScore(def domain.ScaleDefinition) int {
	sum := 0
	for _, item := range def.Items {
		sum += item.MaxPoints
	}
	return sum
}

// Classify maps a total to a band by checking thresholds from the highest
// band down; the last band catches everything below, including negatives.
func Classify(def domain.ScaleDefinition, total int) domain.Band {
	last := len(def.Bands) - 1
	for i := 0; i < last; i++ {
		if total >= def.Bands[i].Min {
			return def.Bands[i]
		}
	}
	return def.Bands[last]
}

// IsComplete reports whether every item has an answer, whatever its value.
func IsComplete(def domain.ScaleDefinition, answers domain.AnswerSet) bool {
	return len(Missing(def, answers)) == 0
}

// Missing returns the IDs of unanswered items in definition order.
func Missing(def domain.ScaleDefinition, answers domain.AnswerSet) []string {
	var missing []string
	for _, item := range def.Items {
		if _, ok := answers[item.ID]; !ok {
			missing = append(missing, item.ID)
		}
	}
	return missing
}

// FindItem returns the item with the given ID and its position.
func FindItem(def domain.ScaleDefinition, itemID string) (domain.Item, int, bool) {
	for i, item := range def.Items {
		if item.ID == itemID {
			return item, i, true
		}
	}
	return domain.Item{}, -1, false
}

// ValidOption reports whether value is one of the item's option values.
func ValidOption(item domain.Item, value int) bool {
	for _, opt := range item.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a definition. Loaders call it
// once so malformed tables never reach a running flow.
func Validate(def domain.ScaleDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidDefinition)
	}
	if len(def.Items) == 0 {
		return fmt.Errorf("%w: %s has no items", domain.ErrInvalidDefinition, def.ID)
	}
	seen := make(map[string]struct{}, len(def.Items))
	for _, item := range def.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: %s has an item without id", domain.ErrInvalidDefinition, def.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item %q", domain.ErrInvalidDefinition, item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.MaxPoints < 0 {
			return fmt.Errorf("%w: item %q has negative max", domain.ErrInvalidDefinition, item.ID)
		}
		var hasZero, hasMax bool
		for _, opt := range item.Options {
			if opt.Value < 0 || opt.Value > item.MaxPoints {
				return fmt.Errorf("%w: item %q option %d outside [0,%d]", domain.ErrInvalidDefinition, item.ID, opt.Value, item.MaxPoints)
			}
			hasZero = hasZero || opt.Value == 0
			hasMax = hasMax || opt.Value == item.MaxPoints
		}
		if !hasZero || !hasMax {
			return fmt.Errorf("%w: item %q must offer 0 and %d", domain.ErrInvalidDefinition, item.ID, item.MaxPoints)
		}
	}
	if len(def.Bands) == 0 {
		return fmt.Errorf("%w: %s has no bands", domain.ErrInvalidDefinition, def.ID)
	}
	for i := 1; i < len(def.Bands); i++ {
		if def.Bands[i].Min >= def.Bands[i-1].Min {
			return fmt.Errorf("%w: bands of %s not in descending order", domain.ErrInvalidDefinition, def.ID)
		}
	}
	return nil
}
