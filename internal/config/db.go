package config

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string // extra DSN parameters, engine specific
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // database file for the sqlite engine
	GormEngine string // sqlite, mysql or postgres
}
