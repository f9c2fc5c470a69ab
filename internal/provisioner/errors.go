// Where: internal/provisioner/errors.go
// What: Provisioner sentinel errors and API error code inspection.
// Why: Let workflows branch on remote failures without parsing messages.
package provisioner

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrStackExists  = errors.New("stack already exists")
	ErrStackFailed  = errors.New("stack did not reach CREATE_COMPLETE")
)

func hasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
