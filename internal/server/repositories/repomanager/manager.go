package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lubecatalog/internal/dbx"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/items"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/media"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/products"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lubecatalog/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or a *sql.Tx, so
// services can run the same repository code inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Products(db dbx.DBTX) products.Repository
	Items(db dbx.DBTX) items.Repository
	Media(db dbx.DBTX) media.Repository
}
