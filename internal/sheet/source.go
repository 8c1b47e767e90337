package sheet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformed reports a response that is not an array of row objects.
// Callers treat it as "nothing to render" rather than a failure.
var ErrMalformed = errors.New("sheet: response is not an array of rows")

// Source yields the rows of a sheet in source order.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// StatusError is returned when the sheet endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheet: HTTP %d", e.Code)
}

// stringify renders a scalar cell the way the sheet would display it.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
