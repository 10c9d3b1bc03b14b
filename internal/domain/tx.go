package domain

import "context"

// UnitOfWork abstrae la transacción del store.
//
// RunInTx ejecuta fn dentro de una transacción (o se une a la que ya viaja en ctx).
// Savepoint ejecuta fn de forma aislada dentro de la transacción en curso: si fn falla,
// solo se revierte lo que fn escribió y la transacción externa sigue válida.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUnitOfWork ejecuta fn directamente. Útil en tests unitarios.
type NoopUnitOfWork struct{}

func (NoopUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (NoopUnitOfWork) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
