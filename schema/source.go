package schema

// Connection holds the coordinates of a remote source. The query-building
// layer never dials anything; the connection only participates in source
// compatibility checks.
type Connection struct {
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" json:"port,omitempty"`
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
	User     string `yaml:"user,omitempty" json:"user,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Path     string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Source names where a logical table physically lives.
type Source struct {
	Type       string     `yaml:"type" json:"type"`
	Connection Connection `yaml:"connection,omitempty" json:"connection,omitempty"`
	Table      string     `yaml:"table,omitempty" json:"table,omitempty"`
	View       string     `yaml:"view,omitempty" json:"view,omitempty"`
}

// localTypes are file-backed source types, mutually joinable without a
// shared connection.
var localTypes = map[string]bool{
	"csv":     true,
	"parquet": true,
}

// IsLocal reports whether the source is file-backed.
func (s *Source) IsLocal() bool {
	return localTypes[s.Type]
}

// IsCompatibleSource reports whether two sources can participate in one
// view: local sources always can; remote sources must share engine type and
// connection coordinates (credentials excluded).
func (s *Source) IsCompatibleSource(other *Source) bool {
	if s == nil || other == nil {
		return false
	}
	if s.IsLocal() && other.IsLocal() {
		return true
	}
	if s.Type != other.Type {
		return false
	}
	return s.Connection.Host == other.Connection.Host &&
		s.Connection.Port == other.Connection.Port &&
		s.Connection.Database == other.Connection.Database
}
