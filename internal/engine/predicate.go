package engine

import (
	"fmt"

	"github.com/tartampluch/go-holisync/internal/config"
)

// CompilePredicate renders a window in the signage filter syntax. The
// leading "TRUE AND" lets the platform compose it with other conditions.
func CompilePredicate(r Resolution) string {
	if r.Single {
		return fmt.Sprintf(config.PredicateSingleFormat, EpochMillis(r.Start))
	}
	return fmt.Sprintf(config.PredicateRangeFormat, EpochMillis(r.Start), EpochMillis(r.End))
}
