package repository

import (
	"context"
	"database/sql"
)

const getBlockByHash = `-- name: GetBlockByHash :one
SELECT id, hash, height, epoch, slot
FROM blocks
WHERE hash = $1
`

func (q *Queries) GetBlockByHash(ctx context.Context, hash string) (Block, error) {
	row := q.db.QueryRowContext(ctx, getBlockByHash, hash)
	var i Block
	err := row.Scan(
		&i.ID,
		&i.Hash,
		&i.Height,
		&i.Epoch,
		&i.Slot,
	)
	return i, err
}

const getLatestBlock = `-- name: GetLatestBlock :one
SELECT id, hash, height, epoch, slot
FROM blocks
ORDER BY height DESC
LIMIT 1
`

func (q *Queries) GetLatestBlock(ctx context.Context) (Block, error) {
	row := q.db.QueryRowContext(ctx, getLatestBlock)
	var i Block
	err := row.Scan(
		&i.ID,
		&i.Hash,
		&i.Height,
		&i.Epoch,
		&i.Slot,
	)
	return i, err
}

const getTransactionInBlock = `-- name: GetTransactionInBlock :one
SELECT t.id, t.tx_index, b.height AS block_height
FROM transactions t
JOIN blocks b ON b.id = t.block_id
WHERE b.hash = $1
  AND t.hash = $2
`

type GetTransactionInBlockParams struct {
	BlockHash string
	TxHash    string
}

type GetTransactionInBlockRow struct {
	ID          int64
	TxIndex     int32
	BlockHeight int64
}

func (q *Queries) GetTransactionInBlock(ctx context.Context, arg GetTransactionInBlockParams) (GetTransactionInBlockRow, error) {
	row := q.db.QueryRowContext(ctx, getTransactionInBlock, arg.BlockHash, arg.TxHash)
	var i GetTransactionInBlockRow
	err := row.Scan(&i.ID, &i.TxIndex, &i.BlockHeight)
	return i, err
}

const listTransactionsByAddresses = `-- name: ListTransactionsByAddresses :many
SELECT DISTINCT
    t.hash,
    t.tx_index,
    t.is_valid,
    t.payload,
    b.hash AS block_hash,
    b.height AS block_height,
    b.epoch AS block_epoch,
    b.slot AS block_slot
FROM address_transactions at
JOIN transactions t ON t.id = at.tx_id
JOIN blocks b ON b.id = t.block_id
WHERE at.address = ANY($1::text[])
  AND b.height <= $2
  AND (
    $3::bigint IS NULL
    OR (b.height, t.tx_index) > ($3::bigint, $4::integer)
  )
ORDER BY b.height, t.tx_index
LIMIT $5
`

type ListTransactionsByAddressesParams struct {
	Addresses    []string
	UntilHeight  int64
	AfterHeight  sql.NullInt64
	AfterTxIndex int32
	PageLimit    int32
}

type ListTransactionsByAddressesRow struct {
	Hash        string
	TxIndex     int32
	IsValid     bool
	Payload     []byte
	BlockHash   string
	BlockHeight int64
	BlockEpoch  int64
	BlockSlot   int64
}

func (q *Queries) ListTransactionsByAddresses(ctx context.Context, arg ListTransactionsByAddressesParams) ([]ListTransactionsByAddressesRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByAddresses,
		arg.Addresses,
		arg.UntilHeight,
		arg.AfterHeight,
		arg.AfterTxIndex,
		arg.PageLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTransactionsByAddressesRow
	for rows.Next() {
		var i ListTransactionsByAddressesRow
		if err := rows.Scan(
			&i.Hash,
			&i.TxIndex,
			&i.IsValid,
			&i.Payload,
			&i.BlockHash,
			&i.BlockHeight,
			&i.BlockEpoch,
			&i.BlockSlot,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
