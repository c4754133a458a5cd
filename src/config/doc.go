// Package config defines the configuration of a RequestProxy instance: the
// two candidate target URLs which select the role, the transport selection,
// and the ambient options (logging, timeouts, TLS material for the WAMP
// router). Fields carry mapstructure tags so the CLIs can bind them through
// viper.
package config
