package database

import (
	"fmt"
	"strings"
)

// QueryBuilder накапливает условия WHERE вместе с их аргументами, чтобы
// позиции плейсхолдеров не расходились с аргументами при сборке запроса
// по кускам. Плейсхолдеры пишутся как "?" и при сборке переводятся в $n.
type QueryBuilder struct {
	clauses []string
	args    []interface{}
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Where добавляет условие; число "?" в cond должно совпадать с числом args
func (qb *QueryBuilder) Where(cond string, args ...interface{}) *QueryBuilder {
	qb.clauses = append(qb.clauses, cond)
	qb.args = append(qb.args, args...)
	return qb
}

// Clause возвращает собранный WHERE (с ведущим пробелом) либо пустую строку
func (qb *QueryBuilder) Clause() string {
	if len(qb.clauses) == 0 {
		return ""
	}

	joined := strings.Join(qb.clauses, " AND ")

	var sb strings.Builder
	sb.WriteString(" WHERE ")
	n := 0
	for _, ch := range joined {
		if ch == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(ch)
	}

	return sb.String()
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}
