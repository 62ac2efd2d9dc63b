// Package config loads service configuration from a YAML file, a .env file
// and the process environment using Viper.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("authsvc", &cfg,
//	    config.WithEnvAliases(map[string]string{"JWT_SECRET": "auth.jwt.secret"}))
//
// Environment variables override file values: AUTH_JWT_SECRET binds to
// auth.jwt.secret. Aliases map unprefixed variable names onto nested keys.
package config
