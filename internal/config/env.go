package config

import "time"

type DatasetSource string

const (
	DatasetEmbedded DatasetSource = "embedded"
	DatasetFile     DatasetSource = "file"
	DatasetDatabase DatasetSource = "database"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"scienceol"`
	Service  string `mapstructure:"SERVICE" default:"solvation"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath    string `mapstructure:"LOG_PATH" default:"./solvation.log"`
	LogLevel   string `mapstructure:"LOG_LEVEL" default:"info"`
	LogConsole bool   `mapstructure:"LOG_CONSOLE" default:"false"`
}

type Trace struct {
	// Exporter is none, stdout or otlp.
	Exporter       string `mapstructure:"TRACE_EXPORTER" default:"none"`
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Output         string `mapstructure:"TRACE_OUTPUT" default:"./solvation-trace.log"`
}

type Dataset struct {
	Source DatasetSource `mapstructure:"DATASET_SOURCE" default:"embedded"`
	// Dir holds solutes.yaml, solvents.yaml and fluids.yaml when Source is file.
	Dir string `mapstructure:"DATASET_DIR" default:"./dataset"`
}

type Database struct {
	Driver   DatabaseDriver `mapstructure:"DATABASE_DRIVER" default:"sqlite"`
	Path     string         `mapstructure:"DATABASE_PATH" default:"./solvation.db"`
	Host     string         `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int            `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string         `mapstructure:"DATABASE_NAME" default:"solvation"`
	User     string         `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string         `mapstructure:"DATABASE_PASSWORD" default:"solvation"`
}

type Sweep struct {
	Points int     `mapstructure:"SWEEP_POINTS" default:"100"`
	Margin float64 `mapstructure:"SWEEP_MARGIN" default:"0.01"`
}

type Report struct {
	Dir    string `mapstructure:"REPORT_DIR" default:"./output"`
	Format string `mapstructure:"REPORT_FORMAT" default:"png"`
	CSV    bool   `mapstructure:"REPORT_CSV" default:"true"`
}

type RPC struct {
	PubChem RPCPubChem `mapstructure:",squash"`
}

type RPCPubChem struct {
	Enabled bool          `mapstructure:"PUBCHEM_ENABLED" default:"false"`
	Addr    string        `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
	Timeout time.Duration `mapstructure:"PUBCHEM_TIMEOUT" default:"30s"`
}
