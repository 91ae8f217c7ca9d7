package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-care-marketplace/internal/domain/owners"
	"pet-care-marketplace/internal/platform/jsoncol"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

func (r *OwnersRepo) GetOwner(ctx context.Context, id string) (owners.PetOwner, error) {
	var o owners.PetOwner
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, COALESCE(email, ''), phone, address, city, created_at, updated_at
		FROM pet_owners
		WHERE id = $1
	`, id).Scan(&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address, &o.City, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return owners.PetOwner{}, ErrNotFound
	}
	return o, err
}

func (r *OwnersRepo) CreateOwnerIfAbsent(ctx context.Context, o owners.PetOwner) (owners.PetOwner, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_owners (id, first_name, last_name, email, phone, address, city, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING
	`, o.ID, o.FirstName, o.LastName, nullString(o.Email), o.Phone, o.Address, o.City, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return owners.PetOwner{}, mapWriteErr(err)
	}
	return r.GetOwner(ctx, o.ID)
}

func (r *OwnersRepo) UpdateOwner(ctx context.Context, o owners.PetOwner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pet_owners SET
			first_name = $2, last_name = $3, email = $4, phone = $5,
			address = $6, city = $7, updated_at = $8
		WHERE id = $1
	`, o.ID, o.FirstName, o.LastName, nullString(o.Email), o.Phone, o.Address, o.City, o.UpdatedAt)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

const petColumns = `
	id, owner_id, name, species, breed, sex, birth_date, weight,
	medical_notes, behavior_notes, vaccinations, allergies,
	created_at, updated_at`

func scanPet(s scanner) (owners.Pet, error) {
	var (
		p          owners.Pet
		bd         sql.NullTime
		vacc, alrg []byte
	)
	if err := s.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.Sex, &bd, &p.Weight,
		&p.MedicalNotes, &p.BehaviorNotes, &vacc, &alrg,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return owners.Pet{}, err
	}
	if bd.Valid {
		// birth_date es DATE; pgx lo trae como medianoche UTC
		t := bd.Time
		p.BirthDate = &t
	}
	p.Vaccinations = jsoncol.Parse(vacc, jsoncol.EmptyList)
	p.Allergies = jsoncol.Parse(alrg, jsoncol.EmptyList)
	return p, nil
}

func (r *OwnersRepo) CreatePet(ctx context.Context, p owners.Pet) error {
	vacc, alrg, err := encodePetLists(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID, p.OwnerID, p.Name, p.Species, p.Breed, p.Sex, nullTime(p.BirthDate), p.Weight,
		p.MedicalNotes, p.BehaviorNotes, vacc, alrg,
		p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *OwnersRepo) UpdatePet(ctx context.Context, p owners.Pet) error {
	vacc, alrg, err := encodePetLists(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets SET
			name = $3, species = $4, breed = $5, sex = $6, birth_date = $7, weight = $8,
			medical_notes = $9, behavior_notes = $10, vaccinations = $11, allergies = $12,
			updated_at = $13
		WHERE owner_id = $1 AND id = $2
	`,
		p.OwnerID, p.ID, p.Name, p.Species, p.Breed, p.Sex, nullTime(p.BirthDate), p.Weight,
		p.MedicalNotes, p.BehaviorNotes, vacc, alrg,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *OwnersRepo) DeletePet(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *OwnersRepo) GetPet(ctx context.Context, ownerID, id string) (owners.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Pet{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+` FROM pets WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return owners.Pet{}, ErrNotFound
	}
	return p, err
}

func (r *OwnersRepo) ListPets(ctx context.Context, ownerID string) ([]owners.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func encodePetLists(p owners.Pet) ([]byte, []byte, error) {
	vacc, err := jsoncol.Encode(p.Vaccinations)
	if err != nil {
		return nil, nil, err
	}
	alrg, err := jsoncol.Encode(p.Allergies)
	if err != nil {
		return nil, nil, err
	}
	return vacc, alrg, nil
}
