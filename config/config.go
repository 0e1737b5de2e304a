// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server   ServerConfiguration
	Database DatabaseConfiguration
	Redis    RedisConfiguration
	JWT      JWTConfiguration
	Cache    CacheConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	DSN string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr string
}

// JWTConfiguration stores token signing settings
type JWTConfiguration struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry string
	TempTokenExpiry   string
}

// CacheConfiguration stores the TTLs used by the authorization core
type CacheConfiguration struct {
	UserContextTTL  string
	ResourceMetaTTL string
	ListTTL         string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "tudu.db")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("jwt.secret", "super-secret-key-for-dev")
	viper.SetDefault("jwt.issuer", "tudu-api")
	viper.SetDefault("jwt.accessTokenExpiry", "96h")
	viper.SetDefault("jwt.tempTokenExpiry", "10m")
	viper.SetDefault("cache.userContextTTL", "5m")
	viper.SetDefault("cache.resourceMetaTTL", "1m")
	viper.SetDefault("cache.listTTL", "1m")
	viper.SetDefault("mfa.issuer", "TodoApp")
	viper.SetDefault("email.from", "noreply@todoapp.com")
	viper.SetDefault("email.fromName", "Todo App")
	viper.SetDefault("sendgrid.apiKey", "")
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", "1m")
	viper.SetDefault("log.dir", "logs")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
