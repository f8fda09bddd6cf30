package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed Store.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, chatID int64) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, user_id, name, email, role, company_id, token
		FROM sessions WHERE chat_id = $1
	`, chatID)

	var s Session
	if err := row.Scan(&s.ChatID, &s.UserID, &s.Name, &s.Email, &s.Role, &s.CompanyID, &s.Token); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Set(ctx context.Context, s Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (chat_id, user_id, name, email, role, company_id, token)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (chat_id) DO UPDATE SET
		  user_id=$2, name=$3, email=$4, role=$5, company_id=$6, token=$7, updated_at=now()
	`, s.ChatID, s.UserID, s.Name, s.Email, string(s.Role), s.CompanyID, s.Token)
	return err
}

func (r *Repo) Clear(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID)
	return err
}
