package catalog

import (
	"slices"
	"strings"
)

// SortOrder задаёт порядок сортировки списка по имени
type SortOrder int

const (
	SortNone SortOrder = iota // порядок вставки
	SortNameAsc
	SortNameDesc
)

// Query фильтрует и сортирует список для отображения
type Query struct {
	Search string
	Sort   SortOrder
}

// apply filters items by a case-insensitive substring over fields(item),
// then sorts by name. The input slice is not modified.
func apply[T Entity](items []T, q Query, fields func(T) []string) []T {
	result := make([]T, 0, len(items))

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, item := range items {
		if needle == "" || matches(needle, fields(item)) {
			result = append(result, item)
		}
	}

	switch q.Sort {
	case SortNameAsc:
		slices.SortStableFunc(result, func(a, b T) int {
			return strings.Compare(a.GetName(), b.GetName())
		})
	case SortNameDesc:
		slices.SortStableFunc(result, func(a, b T) int {
			return strings.Compare(b.GetName(), a.GetName())
		})
	}

	return result
}

func matches(needle string, fields []string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// TitleCase переводит первую букву каждого слова в верхний регистр
func TitleCase(s string) string {
	words := strings.Split(strings.TrimSpace(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
