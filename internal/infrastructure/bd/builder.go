package db

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"assetflow/pkg/types"
)

// ListQuery описывает список: какие поля запроса разрешены для фильтра и сортировки
// (Columns: поле -> колонка), по каким колонкам идет поиск и порядок по умолчанию.
type ListQuery struct {
	Columns      map[string]string
	SearchIn     []string
	DefaultOrder []string
}

// Filtered добавляет WHERE по фильтрам и строке поиска. Годится и для COUNT.
func (s ListQuery) Filtered(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	for _, field := range sortedKeys(filter.Filter) {
		col, ok := s.Columns[field]
		if !ok {
			continue
		}
		val := filter.Filter[field]
		if str, ok := val.(string); ok && strings.Contains(str, ",") {
			builder = builder.Where(sq.Eq{col: strings.Split(str, ",")})
		} else {
			builder = builder.Where(sq.Eq{col: val})
		}
	}

	search := strings.TrimSpace(filter.Search)
	if search != "" && len(s.SearchIn) > 0 {
		pattern := "%" + search + "%"
		or := make(sq.Or, 0, len(s.SearchIn))
		for _, col := range s.SearchIn {
			or = append(or, sq.ILike{col: pattern})
		}
		builder = builder.Where(or)
	}
	return builder
}

// Paged - Filtered плюс ORDER BY и LIMIT/OFFSET.
func (s ListQuery) Paged(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	builder = s.Filtered(builder, filter)

	ordered := false
	for _, field := range sortedKeys(filter.Sort) {
		col, ok := s.Columns[field]
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.EqualFold(filter.Sort[field], "desc") {
			dir = "DESC"
		}
		builder = builder.OrderBy(col + " " + dir)
		ordered = true
	}
	if !ordered && len(s.DefaultOrder) > 0 {
		builder = builder.OrderBy(s.DefaultOrder...)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}
	return builder
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
