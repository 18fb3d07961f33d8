package services

import (
	"strings"

	"gorm.io/gorm"
)

// applySearch 关键词搜索：按空白切分出词元，词元之间AND，
// 每个词元在给定字段之间OR（不区分大小写的包含匹配）。
func applySearch(query *gorm.DB, search string, fields ...string) *gorm.DB {
	tokens := strings.Fields(search)
	if len(tokens) == 0 {
		return query
	}

	for _, token := range tokens {
		pattern := "%" + strings.ToLower(token) + "%"
		conds := make([]string, 0, len(fields))
		args := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return query
}
