package utils

import (
	"fmt"
	"runtime/debug"
)

// GetStackWithError は、エラーに呼び出し時点のスタックトレースを付与します
// errors.Is / errors.As で元のエラーを辿れます
func GetStackWithError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\nStack trace:\n%s", err, debug.Stack())
}
