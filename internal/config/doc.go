// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation,
// so secrets such as database.password can stay out of the file:
//
//	database:
//	  password: ${OHS_DB_PASSWORD}
package config
