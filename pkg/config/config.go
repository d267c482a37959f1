package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends de almacenamiento soportados.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	Firestore FirestoreConfig
	DB        DBConfig
	Inventory InventoryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig selecciona el backend del almacén de documentos.
type StoreConfig struct {
	Backend string // memory | firestore | postgres
}

// FirestoreConfig conexión a Firestore. FIRESTORE_EMULATOR_HOST lo lee directamente el cliente.
type FirestoreConfig struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Table       string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InventoryConfig comportamiento del controlador de inventario y de las sesiones.
type InventoryConfig struct {
	PageSize           int
	AtomicQuantity     bool // alta/baja dentro de una transacción del almacén
	GuardMissingOnEdit bool // editar un ítem inexistente devuelve NotFound en lugar de crear un documento parcial
	SessionTTL         time.Duration
	MaxSessions        int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_BACKEND, FIRESTORE_PROJECT_ID, DB_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := getDuration(v, "INVENTORY_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventory-tracker"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getString(v, "STORE_BACKEND", BackendMemory)),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getString(v, "FIRESTORE_PROJECT_ID", ""),
			Collection:      getString(v, "FIRESTORE_COLLECTION", "inventory"),
			CredentialsFile: getString(v, "FIRESTORE_CREDENTIALS_FILE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Table:       getString(v, "DB_TABLE", "inventory"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		Inventory: InventoryConfig{
			PageSize:           getInt(v, "INVENTORY_PAGE_SIZE", 10),
			AtomicQuantity:     getBool(v, "INVENTORY_ATOMIC_QUANTITY", true),
			GuardMissingOnEdit: getBool(v, "INVENTORY_GUARD_MISSING_ON_EDIT", true),
			SessionTTL:         ttl,
			MaxSessions:        getInt(v, "INVENTORY_MAX_SESSIONS", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica que el backend elegido tenga lo necesario.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("config: FIRESTORE_PROJECT_ID requerido con STORE_BACKEND=firestore")
		}
	case BackendPostgres:
		if c.DB.DatabaseURL == "" && c.DB.Host == "" {
			return errors.New("config: DATABASE_URL o DB_HOST requerido con STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("config: STORE_BACKEND desconocido %q", c.Store.Backend)
	}
	if c.Inventory.PageSize <= 0 {
		return fmt.Errorf("config: INVENTORY_PAGE_SIZE debe ser positivo (%d)", c.Inventory.PageSize)
	}
	if c.Inventory.MaxSessions <= 0 {
		return fmt.Errorf("config: INVENTORY_MAX_SESSIONS debe ser positivo (%d)", c.Inventory.MaxSessions)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
