package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"chainhistory-api/internal/apierror"
	"chainhistory-api/internal/db/repository"
	"chainhistory-api/internal/validation"
)

const (
	defaultAddressLimit = 50
	defaultPageSize     = 100
	serviceTracerName   = "chainhistory-api/internal/service"
)

type Service struct {
	queries       repository.Querier
	addressLimit  int
	pageSize      int
	jwtSigningKey []byte
	jwtIssuer     string
}

type Option func(*Service)

func New(db repository.DBTX, options ...Option) *Service {
	return newWithQuerier(repository.New(db), options...)
}

func newWithQuerier(q repository.Querier, options ...Option) *Service {
	svc := &Service{
		queries:      q,
		addressLimit: defaultAddressLimit,
		pageSize:     defaultPageSize,
		jwtIssuer:    "chainhistory-api",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// WithAddressLimit caps the number of addresses accepted per history request.
func WithAddressLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.addressLimit = limit
		}
	}
}

// WithPageSize sets the largest page TransactionHistory returns.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func WithAuthConfig(signingKey string, issuer string) Option {
	return func(s *Service) {
		s.jwtSigningKey = []byte(strings.TrimSpace(signingKey))
		if strings.TrimSpace(issuer) != "" {
			s.jwtIssuer = strings.TrimSpace(issuer)
		}
	}
}

func (s *Service) AddressLimit() int { return s.addressLimit }

func (s *Service) TransactionHistory(ctx context.Context, input HistoryInput) (HistoryOutput, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.TransactionHistory")
	defer span.End()
	span.SetAttributes(attribute.Int("history.address_count", len(input.Addresses)))

	if err := s.validateAddresses(input.Addresses); err != nil {
		return HistoryOutput{}, err
	}

	until, err := s.resolveUntilBlock(ctx, input.UntilBlock)
	if err != nil {
		return HistoryOutput{}, err
	}

	params := repository.ListTransactionsByAddressesParams{
		Addresses:   validation.NormalizeAddresses(input.Addresses),
		UntilHeight: until.Height,
	}
	if input.After != nil {
		anchor, err := s.resolvePageStart(ctx, *input.After)
		if err != nil {
			return HistoryOutput{}, err
		}
		params.AfterHeight = sql.NullInt64{Int64: anchor.BlockHeight, Valid: true}
		params.AfterTxIndex = anchor.TxIndex
	}

	pageLimit := s.normalizePageLimit(input.Limit)
	params.PageLimit = int32(pageLimit)

	rows, err := s.queries.ListTransactionsByAddresses(ctx, params)
	if err != nil {
		return HistoryOutput{}, mapDatabaseError(err)
	}

	output := HistoryOutput{Transactions: make([]TransactionOutput, 0, len(rows))}
	for _, row := range rows {
		output.Transactions = append(output.Transactions, mapTransactionRow(row))
	}
	if len(rows) == pageLimit && len(rows) > 0 {
		last := rows[len(rows)-1]
		output.Next = &AfterInput{Block: last.BlockHash, Tx: last.Hash}
	}

	return output, nil
}

func (s *Service) LatestBlock(ctx context.Context) (BlockOutput, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.LatestBlock")
	defer span.End()

	block, err := s.queries.GetLatestBlock(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlockOutput{}, notFoundError("no blocks indexed")
		}
		return BlockOutput{}, mapDatabaseError(err)
	}

	return mapBlock(block), nil
}

// validateAddresses checks the count before the format so that oversized
// requests are rejected without scanning every entry.
func (s *Service) validateAddresses(addresses []string) error {
	if len(addresses) == 0 {
		return validationError("addresses must contain at least one address")
	}
	if len(addresses) > s.addressLimit {
		return apierror.New(apierror.AddressLimitExceeded, apierror.AddressLimitDetails{
			Limit: s.addressLimit,
			Found: len(addresses),
		})
	}
	if invalid := validation.InvalidAddresses(addresses); len(invalid) > 0 {
		return apierror.New(apierror.IncorrectAddressFormat, apierror.AddressFormatDetails{Addresses: invalid})
	}
	return nil
}

func (s *Service) resolveUntilBlock(ctx context.Context, rawHash string) (repository.Block, error) {
	notFound := func(cause error) error {
		return apierror.New(apierror.UntilBlockNotFound, apierror.UntilBlockDetails{UntilBlock: rawHash}, cause)
	}

	if !validation.ValidHash(rawHash) {
		return repository.Block{}, notFound(nil)
	}

	block, err := s.queries.GetBlockByHash(ctx, validation.NormalizeHash(rawHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.Block{}, notFound(err)
		}
		return repository.Block{}, mapDatabaseError(err)
	}
	return block, nil
}

func (s *Service) resolvePageStart(ctx context.Context, after AfterInput) (repository.GetTransactionInBlockRow, error) {
	notFound := func(cause error) error {
		return apierror.New(apierror.PageStartNotFound, apierror.PageStartDetails{
			BlockHash: after.Block,
			TxHash:    after.Tx,
		}, cause)
	}

	if !validation.ValidHash(after.Block) || !validation.ValidHash(after.Tx) {
		return repository.GetTransactionInBlockRow{}, notFound(nil)
	}

	row, err := s.queries.GetTransactionInBlock(ctx, repository.GetTransactionInBlockParams{
		BlockHash: validation.NormalizeHash(after.Block),
		TxHash:    validation.NormalizeHash(after.Tx),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.GetTransactionInBlockRow{}, notFound(err)
		}
		return repository.GetTransactionInBlockRow{}, mapDatabaseError(err)
	}
	return row, nil
}

func (s *Service) normalizePageLimit(limit int) int {
	if limit <= 0 || limit > s.pageSize {
		return s.pageSize
	}
	return limit
}

func mapBlock(block repository.Block) BlockOutput {
	return BlockOutput{
		Hash:   block.Hash,
		Height: block.Height,
		Epoch:  block.Epoch,
		Slot:   block.Slot,
	}
}

func mapTransactionRow(row repository.ListTransactionsByAddressesRow) TransactionOutput {
	return TransactionOutput{
		Hash:    row.Hash,
		TxIndex: row.TxIndex,
		IsValid: row.IsValid,
		Payload: hex.EncodeToString(row.Payload),
		Block: BlockOutput{
			Hash:   row.BlockHash,
			Height: row.BlockHeight,
			Epoch:  row.BlockEpoch,
			Slot:   row.BlockSlot,
		},
	}
}

func mapDatabaseError(err error) error {
	if isQueryCanceledError(err) {
		return unavailableError("query canceled", err)
	}
	if isTooManyConnectionsError(err) {
		return unavailableError("database busy", err)
	}
	return fmt.Errorf("query history: %w", err)
}

func isQueryCanceledError(err error) bool {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code == "57014"
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isTooManyConnectionsError(err error) bool {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code == "53300"
	}
	return false
}
