package companies

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (Company, error)
	// CreateIfAbsent inserta c si no existe una fila con ese id y devuelve
	// la fila persistida (la nueva o la que ya estaba).
	CreateIfAbsent(ctx context.Context, c Company) (Company, error)
	Update(ctx context.Context, c Company) error
	ListVerified(ctx context.Context, q PublicQuery) ([]Company, int, error)
}
