package bindgen

import (
	"github.com/pagr/bindgen/errors"
	"github.com/pagr/bindgen/model"
)

// NoLiteral is embedded by strategies for variants that structurally have no
// literal syntax (objects, callback interfaces). Reaching Literal through it
// means the caller's traversal failed to exclude such a variant; the filter
// layer only routes literal-bearing tags, so this path is unreachable by
// construction.
type NoLiteral struct{}

// Literal panics with an assertion failure.
func (NoLiteral) Literal(_ Oracle, literal model.Literal) string {
	panic(errors.AssertionFailedf("literal requested for a type with no literal syntax (kind %d)", literal.Kind))
}
