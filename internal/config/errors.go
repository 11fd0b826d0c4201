package config

import "errors"

var (
	errNoInput            = errors.New("directories.input is required")
	errNoOutput           = errors.New("directories.output is required")
	errOutputInsideInput  = errors.New("directories.output must not equal or be nested under directories.input")
	errNoPreferredSize    = errors.New("media.preferredSize must not be empty")
	errBadMermaidStrategy = errors.New("mermaid.strategy must be one of img-png, img-svg, inline-svg, pre-mermaid")
	errBadDebugLevel      = errors.New("debugLevel must be between 0 and 3")
	errBadSlugStrategy    = errors.New("slugStrategy must be one of number, hash")
)
