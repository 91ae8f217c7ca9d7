package owners

import "context"

type Repository interface {
	GetOwner(ctx context.Context, id string) (PetOwner, error)
	// CreateOwnerIfAbsent inserta o si no existe y devuelve la fila persistida.
	CreateOwnerIfAbsent(ctx context.Context, o PetOwner) (PetOwner, error)
	UpdateOwner(ctx context.Context, o PetOwner) error

	CreatePet(ctx context.Context, p Pet) error
	UpdatePet(ctx context.Context, p Pet) error
	DeletePet(ctx context.Context, ownerID, id string) error
	GetPet(ctx context.Context, ownerID, id string) (Pet, error)
	ListPets(ctx context.Context, ownerID string) ([]Pet, error)
}
