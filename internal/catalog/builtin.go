package catalog

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed builtin.json
var builtinJSON []byte

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns a Static source over the catalog embedded in the binary.
func Builtin() (*Static, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Decode(builtinJSON)
		if builtinErr != nil {
			builtinErr = fmt.Errorf("builtin catalog: %w", builtinErr)
		}
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	return NewStatic(*builtin), nil
}
