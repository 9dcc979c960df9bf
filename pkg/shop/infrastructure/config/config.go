package config

import "github.com/kelseyhightower/envconfig"

// Config is read from SHOP_* environment variables.
type Config struct {
	HTTPAddress string `envconfig:"HTTP_ADDRESS" default:":8080"`
	// Storage selects the backing store: "memory" or "mysql".
	Storage  string `envconfig:"STORAGE" default:"memory"`
	MySQLDSN string `envconfig:"MYSQL_DSN" default:"shop:shop@tcp(localhost:3306)/shop?parseTime=true&multiStatements=true"`
}

func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("shop", c); err != nil {
		return nil, err
	}
	return c, nil
}
