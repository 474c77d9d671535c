package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/chime/internal/config"
	"github.com/julianstephens/chime/internal/constants"
	"github.com/julianstephens/chime/internal/keyring"
	"github.com/julianstephens/chime/internal/logger"
)

// New picks a backend from storage.path: the postgres alias or a postgres://
// URL selects PostgreSQL, a .json suffix the JSON file, anything else SQLite.
// The returned provider is not yet open.
func New(path string) (Provider, error) {
	switch {
	case path == constants.PostgresAlias:
		connStr, src, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, err
		}
		if err := ValidateConnString(connStr, true); err != nil {
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection string", "source", src)
		return NewPostgresStore(connStr), nil
	case config.IsPostgres(path):
		if err := ValidateConnString(path, false); err != nil {
			return nil, fmt.Errorf("%w (store the full string with 'chime keyring set' or %s and use storage.path=%s)",
				err, constants.EnvDBConnection, constants.PostgresAlias)
		}
		return NewPostgresStore(path), nil
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return NewJSONStore(path), nil
	default:
		return NewSQLiteStore(path), nil
	}
}
