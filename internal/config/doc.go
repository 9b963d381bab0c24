// SPDX-License-Identifier: Apache-2.0

// Package config loads, merges, and validates the targetcache
// configuration.
//
// Values are collected from three sources and merged with the first
// non-zero value winning: environment variables, command-line flags,
// and an optional JSON file whose path is itself taken from the other
// two sources. Built-in defaults are applied last for anything still
// unset.
package config
