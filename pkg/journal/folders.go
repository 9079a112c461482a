package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unowned-ai/daybook/pkg/contextutil"
)

const (
	createFolderStatement = `
	INSERT INTO folders (name, icon)
	VALUES (?, ?)
	`

	getFolderStatement = `
	SELECT id, name, icon
	FROM folders
	WHERE id = ?
	`

	getFolderByNameStatement = `
	SELECT id, name, icon
	FROM folders
	WHERE name = ? COLLATE NOCASE
	ORDER BY id
	LIMIT 1
	`

	listFoldersStatement = `
	SELECT id, name, icon
	FROM folders
	ORDER BY id
	`

	deleteFolderJournalsStatement = `
	DELETE FROM journals
	WHERE folder_id = ?
	`

	deleteFolderStatement = `
	DELETE FROM folders
	WHERE id = ?
	`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(s rowScanner) (Folder, error) {
	var (
		folder Folder
		icon   sql.NullString
	)
	if err := s.Scan(&folder.ID, &folder.Name, &icon); err != nil {
		return Folder{}, err
	}
	folder.Color = icon.String
	return folder, nil
}

// CreateFolder stores a new folder. It does not check for duplicate names;
// AddFolder does.
func CreateFolder(ctx context.Context, db *sql.DB, name, color string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, invalid("name", "folder name must not be empty")
	}

	res, err := db.ExecContext(ctx, createFolderStatement, name, strings.TrimSpace(color))
	if err != nil {
		return Folder{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Folder{}, err
	}

	return GetFolder(ctx, db, id)
}

// AddFolder creates a folder unless one with the same name already exists.
func AddFolder(ctx context.Context, db *sql.DB, name, color string) (Folder, error) {
	_, err := GetFolderByName(ctx, db, name)
	if err == nil {
		return Folder{}, ErrFolderExists
	}
	if !errors.Is(err, ErrFolderNotFound) {
		return Folder{}, err
	}

	return CreateFolder(ctx, db, name, color)
}

func GetFolder(ctx context.Context, db *sql.DB, id int64) (Folder, error) {
	folder, err := scanFolder(db.QueryRowContext(ctx, getFolderStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrFolderNotFound
		}
		return Folder{}, err
	}
	return folder, nil
}

// GetFolderByName matches names case-insensitively.
func GetFolderByName(ctx context.Context, db *sql.DB, name string) (Folder, error) {
	folder, err := scanFolder(db.QueryRowContext(ctx, getFolderByNameStatement, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, ErrFolderNotFound
		}
		return Folder{}, err
	}
	return folder, nil
}

func ListFolders(ctx context.Context, db *sql.DB) ([]Folder, error) {
	rows, err := db.QueryContext(ctx, listFoldersStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return folders, nil
}

// DeleteFolder removes a folder and every journal in it, atomically.
// It returns how many journals were removed.
func DeleteFolder(ctx context.Context, db *sql.DB, id int64) (removed int64, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				contextutil.LoggerFromContext(ctx).Error("storage: rollback failed", "error", rbErr)
			}
		}
	}()

	res, err := tx.ExecContext(ctx, deleteFolderJournalsStatement, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete journals of folder %d: %w", id, err)
	}
	removed, err = res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = tx.ExecContext(ctx, deleteFolderStatement, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete folder %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		err = ErrFolderNotFound
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}
