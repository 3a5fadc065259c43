package mealtypes

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]`)

// NewKey derives a stable storage key from a display name.
func NewKey(name string, now time.Time) string {
	base := nonKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return base + "_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// NextOrder is one past the highest configured order, or 1 when empty.
func NextOrder(types []storage.MealType) int {
	next := 1
	for _, t := range types {
		if t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

// Reconcile returns a meal map whose key set equals the configured keys:
// configured keys missing from meals get an empty slice, other keys are dropped.
func Reconcile(meals map[string][]storage.LoggedFood, types []storage.MealType) map[string][]storage.LoggedFood {
	out := make(map[string][]storage.LoggedFood, len(types))
	for _, t := range types {
		entries := meals[t.Key]
		if entries == nil {
			entries = []storage.LoggedFood{}
		}
		out[t.Key] = entries
	}
	return out
}

// Keys lists the configured keys in display order.
func Keys(types []storage.MealType) []string {
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = t.Key
	}
	return keys
}

// Find returns the index of key in types, or -1.
func Find(types []storage.MealType, key string) int {
	for i, t := range types {
		if t.Key == key {
			return i
		}
	}
	return -1
}

func nameTaken(types []storage.MealType, name, exceptKey string) bool {
	for _, t := range types {
		if t.Key != exceptKey && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
