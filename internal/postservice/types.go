package postservice

import (
	"errors"

	"github.com/sushihentaime/postbook/internal/common"
)

var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDuplicateTitle   = errors.New("a post with this title already exists")
	ErrBlogForeignKey   = errors.New("blog_id does not exist")
)

// InvalidOperationError is returned by the Update operations when the input
// is rejected or the target cannot be found. Nothing is written when it is
// returned.
type InvalidOperationError struct {
	Message string
}

func (e *InvalidOperationError) Error() string {
	return e.Message
}

func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

func invalidOperation(message string) error {
	return &InvalidOperationError{Message: message}
}

type PostModel struct {
	store *common.Store
}

type PostService struct {
	m *PostModel
}
