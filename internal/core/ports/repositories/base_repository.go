package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically. The provider handed to fn is
// bound to the transaction; any error returned by fn rolls every write back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryProvider) error) error
}
