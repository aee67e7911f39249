package config

// DB holds the database configuration settings.
// GormEngine selects the driver: "sqlite" (default), "mysql" or "postgres".
// Path is used by sqlite; the remaining fields by the server engines.
type DB struct {
	GormEngine string
	Path       string
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
}
