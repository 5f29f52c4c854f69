// Package config provides configuration structures and utilities for reportscope.
// It defines where the report service lives, how exports are rendered and
// stored, and which generator provider answers learning-plan requests.
package config
