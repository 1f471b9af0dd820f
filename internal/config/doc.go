// Package config provides configuration structures and utilities for
// reportdeck. It defines where the catalog is read from, how it is fetched,
// how the web server listens and which display defaults apply.
package config
