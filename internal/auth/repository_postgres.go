package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, full_name, username, password, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(context.Background(), query,
		user.ID, user.FullName, user.Username, user.Password, user.Role,
	)
	return err
}

func (r *PostgresUserRepository) ExistsByUsername(username string) (bool, error) {
	query := `SELECT 1 FROM users WHERE username=$1 LIMIT 1`
	row := r.db.QueryRow(context.Background(), query, username)

	var exists int
	if err := row.Scan(&exists); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *PostgresUserRepository) FindByUsername(username string) (*User, error) {
	query := `
		SELECT id, full_name, username, password, role
		FROM users WHERE username=$1
	`
	row := r.db.QueryRow(context.Background(), query, username)

	user := &User{}
	if err := row.Scan(&user.ID, &user.FullName, &user.Username, &user.Password, &user.Role); err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *PostgresUserRepository) ListUsers() ([]*User, error) {
	rows, err := r.db.Query(context.Background(), `
		SELECT id, full_name, username, role
		FROM users
		ORDER BY full_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.ID, &user.FullName, &user.Username, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
