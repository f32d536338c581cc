package postgresql

import (
	"fmt"
	"strings"
)

// whereClause accumulates AND-ed conditions with positional arguments.
type whereClause struct {
	conds []string
	args  []any
}

func newWhere(conds ...string) *whereClause {
	return &whereClause{conds: conds}
}

// add appends cond, where %s stands for the placeholder bound to arg.
func (w *whereClause) add(cond string, arg any) {
	w.conds = append(w.conds, fmt.Sprintf(cond, w.arg(arg)))
}

func (w *whereClause) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

// arg binds v and returns its placeholder.
func (w *whereClause) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(w.conds, " AND ")
}
