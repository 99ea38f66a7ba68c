// Package configs provides the embedded configuration template for storefront.
//
// The template is used by `storefront config init`, which writes it either to
// .storefront.yaml in the config directory or, with --user, to the user config
// at $XDG_CONFIG_HOME/storefront/config.yaml.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/storefront/config.yaml)
//  3. Project config (.storefront.yaml)
//  4. Environment variables (STOREFRONT_*)
package configs

import _ "embed"

// ConfigTemplate documents every setting with its default. Settings left
// commented out keep the default.
//
//go:embed config.example.yaml
var ConfigTemplate string
