package repomanager

import (
	"context"
	"database/sql"

	"github.com/habbababbai/entertainment-tracker/internal/dbx"
	"github.com/habbababbai/entertainment-tracker/internal/server/repositories/users"
	"github.com/habbababbai/entertainment-tracker/internal/server/repositories/watchlist"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Watchlist(db dbx.DBTX) watchlist.Repository
}
