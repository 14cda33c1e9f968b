package seeders

import (
	"context"
	"log"

	"assetflow/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedUsers создаёт логины, профили с ролями и привязывает сотрудников.
// Существующий логин не трогается, пароль не перезаписывается.
func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание пользователей и профилей...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range usersData {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}

		var userID uint64
		err = tx.QueryRow(ctx, `
			INSERT INTO users (username, password_hash) VALUES ($1, $2)
			ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
			RETURNING id`, u.Username, hash).Scan(&userID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, role) VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`, userID, string(u.Role)); err != nil {
			return err
		}

		if u.EmployeeEmail != "" {
			tag, err := tx.Exec(ctx, `UPDATE employees SET user_id = $1 WHERE email = $2 AND user_id IS NULL`, userID, u.EmployeeEmail)
			if err != nil {
				return err
			}
			if tag.RowsAffected() > 0 {
				log.Printf("    - Связали %s с %s", u.Username, u.EmployeeEmail)
			}
		}
	}
	return tx.Commit(ctx)
}
