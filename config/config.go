package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig system level config
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server config
type WebConfig struct {
	Host  string `yaml:"host" json:"host"`
	Port  int    `yaml:"port" json:"port"`
	Debug bool   `yaml:"debug" json:"debug"`
}

// DBConfig database config
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// LoggerConfig logger config
type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "toughstore",
		Location: "Asia/Shanghai",
		Workdir:  "/var/toughstore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:  "0.0.0.0",
		Port:  1816,
		Debug: true,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "toughstore_v1",
		User:     "postgres",
		Passwd:   "toughstore",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/toughstore/toughstore.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(cast.ToInt(evalue))
	}
}

// LoadConfig loads the yaml configuration file and applies environment overrides.
// A missing file falls back to the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	appConfig := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			appConfig = new(AppConfig)
			if err := yaml.Unmarshal(data, appConfig); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("TOUGHSTORE_SYSTEM_WORKDIR", func(v string) { appConfig.System.Workdir = v })
	setEnvValue("TOUGHSTORE_SYSTEM_LOCATION", func(v string) { appConfig.System.Location = v })
	setEnvBoolValue("TOUGHSTORE_SYSTEM_DEBUG", func(v bool) { appConfig.System.Debug = v })

	setEnvValue("TOUGHSTORE_WEB_HOST", func(v string) { appConfig.Web.Host = v })
	setEnvIntValue("TOUGHSTORE_WEB_PORT", func(v int) { appConfig.Web.Port = v })
	setEnvBoolValue("TOUGHSTORE_WEB_DEBUG", func(v bool) { appConfig.Web.Debug = v })

	setEnvValue("TOUGHSTORE_DB_TYPE", func(v string) { appConfig.Database.Type = v })
	setEnvValue("TOUGHSTORE_DB_HOST", func(v string) { appConfig.Database.Host = v })
	setEnvIntValue("TOUGHSTORE_DB_PORT", func(v int) { appConfig.Database.Port = v })
	setEnvValue("TOUGHSTORE_DB_NAME", func(v string) { appConfig.Database.Name = v })
	setEnvValue("TOUGHSTORE_DB_USER", func(v string) { appConfig.Database.User = v })
	setEnvValue("TOUGHSTORE_DB_PWD", func(v string) { appConfig.Database.Passwd = v })
	setEnvBoolValue("TOUGHSTORE_DB_DEBUG", func(v bool) { appConfig.Database.Debug = v })

	setEnvValue("TOUGHSTORE_LOGGER_MODE", func(v string) { appConfig.Logger.Mode = v })
	setEnvBoolValue("TOUGHSTORE_LOGGER_FILE_ENABLE", func(v bool) { appConfig.Logger.FileEnable = v })
	setEnvValue("TOUGHSTORE_LOGGER_FILENAME", func(v string) { appConfig.Logger.Filename = v })

	appConfig.initDirs()
	return appConfig
}
