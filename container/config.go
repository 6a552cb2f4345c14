package container

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigHTTPServer struct for HTTP ConfigTransport configuration
type ConfigHTTPServer struct {
	Port int `yaml:"port"`
}

// ConfigTransport is a configuration for Admin ConfigTransport: HTTP, gRPC or anything
type ConfigTransport struct {
	HTTP ConfigHTTPServer `yaml:"http"`
}

type ConfigGoSqlDb struct {
	Debug bool   `yaml:"debug"`
	DSN   string `yaml:"dsn"` // Data Source Name
}

type ConfigDatabaseResource struct {
	Disable bool   `yaml:"disable"`
	Driver  string `yaml:"driver"` // postgres, etc

	// per driver configuration
	Postgres ConfigGoSqlDb `yaml:"postgres"`
}

// ConfigDatabaseResources redefine config
type ConfigDatabaseResources map[string]ConfigDatabaseResource

type ConfigRedisConn struct {
	Mode       string   `yaml:"mode"` // single, sentinel or cluster
	Address    []string `yaml:"address"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	DB         int      `yaml:"db"`
	MasterName string   `yaml:"masterName"` // sentinel only
}

type ConfigRedis map[string]ConfigRedisConn

type ConfigServiceCluster struct {
	DBLabel string `yaml:"dbLabel"`

	// CacheLabel points at a redis connection. Empty means the cluster repo
	// runs with an in-process cache instead.
	CacheLabel        string `yaml:"cacheLabel"`
	CachePrefix       string `yaml:"cachePrefix"`
	CacheExpirySecond int    `yaml:"cacheExpirySecond"`
}

type ConfigServiceNotebook struct {
	DBLabel string `yaml:"dbLabel"`
}

type ConfigServiceQueue struct {
	DBLabel     string `yaml:"dbLabel"`
	MaxBuffer   int    `yaml:"maxBuffer"`
	MaxParallel int    `yaml:"maxParallel"`
}

type ConfigServiceCloudAccount struct {
	DBLabel string `yaml:"dbLabel"`
}

type ConfigServiceIdentity struct {
	BaseURL string `yaml:"baseUrl"` // Keycloak admin host
	Realm   string `yaml:"realm"`
	Debug   bool   `yaml:"debug"`
}

type ConfigServiceMarketplace struct {
	RoleARN     string `yaml:"roleArn"`
	Region      string `yaml:"region"`
	SessionName string `yaml:"sessionName"`
	Endpoint    string `yaml:"endpoint"` // override for local development
}

type ConfigMailCredential struct {
	Protocol     string `yaml:"protocol"`
	ServerHost   string `yaml:"serverHost"`
	ServerPort   int    `yaml:"serverPort"`
	AuthIdentity string `yaml:"authIdentity"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

type ConfigServiceMail struct {
	Enabled    bool                 `yaml:"enabled"`
	SenderAddr string               `yaml:"senderAddr"`
	Credential ConfigMailCredential `yaml:"credential"`
}

type ConfigServices struct {
	Cluster      ConfigServiceCluster      `yaml:"cluster"`
	Notebook     ConfigServiceNotebook     `yaml:"notebook"`
	Queue        ConfigServiceQueue        `yaml:"queue"`
	CloudAccount ConfigServiceCloudAccount `yaml:"cloudAccount"`
	Identity     ConfigServiceIdentity     `yaml:"identity"`
	Marketplace  ConfigServiceMarketplace  `yaml:"marketplace"`
	Mail         ConfigServiceMail         `yaml:"mail"`
}

// Config contains application config
type Config struct {
	Transport         ConfigTransport         `yaml:"transport"`
	DatabaseResources ConfigDatabaseResources `yaml:"databaseResources"`
	Redis             ConfigRedis             `yaml:"redis"`
	Services          ConfigServices          `yaml:"services"`
}

// LoadConfig reads the YAML config file and decodes it into Config.
func LoadConfig(configFile string) (cfg Config, err error) {
	fileContent, err := os.ReadFile(configFile)
	if err != nil {
		err = fmt.Errorf("error read file config %s: %w", configFile, err)
		return
	}

	dec := yaml.NewDecoder(bytes.NewReader(fileContent))
	dec.KnownFields(false)
	err = dec.Decode(&cfg)
	return
}
