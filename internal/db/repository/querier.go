package repository

import (
	"context"
)

type Querier interface {
	GetBlockByHash(ctx context.Context, hash string) (Block, error)
	GetLatestBlock(ctx context.Context) (Block, error)
	GetTransactionInBlock(ctx context.Context, arg GetTransactionInBlockParams) (GetTransactionInBlockRow, error)
	ListTransactionsByAddresses(ctx context.Context, arg ListTransactionsByAddressesParams) ([]ListTransactionsByAddressesRow, error)
}

var _ Querier = (*Queries)(nil)
